package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"strings"

	"vcheckapp/model"
	"vcheckapp/store"

	"github.com/xuri/excelize/v2"
)

// ArchiveService builds downloadable zip archives combining a spreadsheet of
// task metadata with the photo evidence fetched from the blob store.
type ArchiveService struct {
	tasks store.TaskStore
	blobs store.BlobStore
}

func NewArchiveService(tasks store.TaskStore, blobs store.BlobStore) *ArchiveService {
	return &ArchiveService{tasks: tasks, blobs: blobs}
}

// Archive is a finished container ready to hand to the download response.
type Archive struct {
	Filename string
	Data     []byte
	Warnings []ItemFailure
}

// photoEntry is one planned zip entry. After fetching it carries either the
// photo bytes or the error that replaces them with a placeholder.
type photoEntry struct {
	zipName  string
	failName string
	url      string
	data     []byte
	err      error
}

// fetchPhotos runs one fetch per entry concurrently and joins on all of
// them. Individual failures stay on their entry; nothing short-circuits.
func (s *ArchiveService) fetchPhotos(ctx context.Context, entries []photoEntry) {
	done := make(chan int, len(entries))
	for i := range entries {
		go func(i int) {
			entries[i].data, entries[i].err = s.blobs.Fetch(ctx, entries[i].url)
			done <- i
		}(i)
	}
	for range entries {
		<-done
	}
}

// writeEntries appends the fetched photos to the zip, substituting a text
// placeholder naming the URL for every failed fetch.
func writeEntries(zw *zip.Writer, entries []photoEntry, warnings *[]ItemFailure) error {
	for i := range entries {
		entry := &entries[i]
		if entry.err != nil {
			log.Printf("Could not download image %s: %v", entry.url, entry.err)
			w, err := zw.Create(entry.failName)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "Failed to download: %s", entry.url); err != nil {
				return err
			}
			*warnings = append(*warnings, ItemFailure{ID: entry.url, Error: entry.err.Error()})
			continue
		}

		w, err := zw.Create(entry.zipName)
		if err != nil {
			return err
		}
		if _, err := w.Write(entry.data); err != nil {
			return err
		}
	}
	return nil
}

// BuildTaskArchive packages one task: task_data.xlsx plus a photos/ entry
// per referenced photo. The spreadsheet is produced even when the task has
// no submissions.
func (s *ArchiveService) BuildTaskArchive(ctx context.Context, userID string, task *model.MotoTask) (*Archive, error) {
	if task == nil || task.ID == "" {
		return nil, &ValidationError{Field: "task", Reason: "missing task id"}
	}

	subs, err := s.tasks.ListSubmissions(ctx, userID, task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for task %s: %w", task.ID, err)
	}

	workbook, err := buildTaskWorkbook(task, subs)
	if err != nil {
		return nil, fmt.Errorf("failed to build spreadsheet: %w", err)
	}

	var entries []photoEntry
	for _, sub := range subs {
		for photoIndex, photoURL := range sub.PhotoUrls {
			entries = append(entries, photoEntry{
				zipName:  fmt.Sprintf("photos/submission_%s_photo_%d.jpg", sub.ID, photoIndex+1),
				failName: fmt.Sprintf("photos/FAILED_TO_DOWNLOAD_submission_%s_photo_%d.txt", sub.ID, photoIndex+1),
				url:      photoURL,
			})
		}
	}
	s.fetchPhotos(ctx, entries)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("task_data.xlsx")
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(workbook); err != nil {
		return nil, err
	}

	archive := &Archive{Filename: fmt.Sprintf("mototask_%s.zip", task.ID)}
	if err := writeEntries(zw, entries, &archive.Warnings); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	archive.Data = buf.Bytes()
	return archive, nil
}

// BuildAllTasksArchive packages every task into task_{id}/ folders with
// their photos, alongside one tasks.xlsx holding a metadata sheet per task.
// Photo names are recovered from the blob path when possible and
// de-duplicated within each task folder.
func (s *ArchiveService) BuildAllTasksArchive(ctx context.Context, userID string, tasks []model.MotoTask) (*Archive, error) {
	if len(tasks) == 0 {
		return nil, &ValidationError{Field: "tasks", Reason: "no tasks available to download"}
	}

	workbook, err := buildAllTasksWorkbook(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to build spreadsheet: %w", err)
	}

	var entries []photoEntry
	for _, task := range tasks {
		subs, err := s.tasks.ListSubmissions(ctx, userID, task.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list submissions for task %s: %w", task.ID, err)
		}

		folder := fmt.Sprintf("task_%s/photos", task.ID)
		usedNames := make(map[string]bool)
		for _, sub := range subs {
			for photoIndex, photoURL := range sub.PhotoUrls {
				name := uniqueName(usedNames, photoFileName(photoURL, photoIndex))
				entries = append(entries, photoEntry{
					zipName:  fmt.Sprintf("%s/%s", folder, name),
					failName: fmt.Sprintf("%s/FAILED_TO_DOWNLOAD_for_sub_%s_%d.txt", folder, sub.ID, photoIndex+1),
					url:      photoURL,
				})
			}
		}
	}
	s.fetchPhotos(ctx, entries)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("tasks.xlsx")
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(workbook); err != nil {
		return nil, err
	}

	archive := &Archive{Filename: "all_tasks_archive.zip"}
	if err := writeEntries(zw, entries, &archive.Warnings); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	archive.Data = buf.Bytes()
	return archive, nil
}

// photoFileName derives a zip file name from the original blob path, falling
// back to a sequential name when the URL carries none.
func photoFileName(photoURL string, photoIndex int) string {
	base := path.Base(store.ObjectPathFromURL(photoURL))
	if base == "" || base == "." || base == "/" {
		return fmt.Sprintf("photo_%d.jpg", photoIndex+1)
	}
	return base
}

// uniqueName reserves name within one folder, suffixing duplicates.
func uniqueName(used map[string]bool, name string) string {
	if !used[name] {
		used[name] = true
		return name
	}

	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if !used[candidate] {
			used[candidate] = true
			return candidate
		}
	}
}

func buildTaskWorkbook(task *model.MotoTask, subs []model.Submission) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const taskSheet = "Task Details"
	f.SetSheetName("Sheet1", taskSheet)

	taskHeaders := []interface{}{"Task ID", "Vehicle Number", "Name", "Registration Number",
		"Description", "Status", "Public Link", "Created At", "Updated At"}
	if err := f.SetSheetRow(taskSheet, "A1", &taskHeaders); err != nil {
		return nil, err
	}
	taskRow := []interface{}{task.ID, task.VehicleNumber, task.Name, task.RegNumber,
		task.TaskDescription, task.Status, task.FormLink,
		formatSheetTime(task.CreatedAt), formatSheetTime(task.UpdatedAt)}
	if err := f.SetSheetRow(taskSheet, "A2", &taskRow); err != nil {
		return nil, err
	}

	if len(subs) > 0 {
		const subSheet = "Submissions"
		if _, err := f.NewSheet(subSheet); err != nil {
			return nil, err
		}

		subHeaders := []interface{}{"Submission ID", "Verifier Name", "Notes", "Submitted At", "Photo URLs"}
		if err := f.SetSheetRow(subSheet, "A1", &subHeaders); err != nil {
			return nil, err
		}
		for i, sub := range subs {
			row := []interface{}{sub.ID, sub.VerifierName, sub.Notes,
				formatSheetTime(sub.CreatedAt), strings.Join(sub.PhotoUrls, ", ")}
			cell := fmt.Sprintf("A%d", i+2)
			if err := f.SetSheetRow(subSheet, cell, &row); err != nil {
				return nil, err
			}
		}
	}

	out, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func buildAllTasksWorkbook(tasks []model.MotoTask) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headers := []interface{}{"Task ID", "Vehicle Number", "Name", "Registration Number",
		"Description", "Status", "Public Link", "Created At", "Updated At"}

	for i, task := range tasks {
		// Sheet names are capped at 31 characters, so the full task id goes
		// in the rows rather than in the name.
		sheet := fmt.Sprintf("Task %d", i+1)
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, err
			}
		}

		if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
			return nil, err
		}
		row := []interface{}{task.ID, task.VehicleNumber, task.Name, task.RegNumber,
			task.TaskDescription, task.Status, task.FormLink,
			formatSheetTime(task.CreatedAt), formatSheetTime(task.UpdatedAt)}
		if err := f.SetSheetRow(sheet, "A2", &row); err != nil {
			return nil, err
		}
	}

	out, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
