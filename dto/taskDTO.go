package dto

type CreateTaskRequest struct {
	VehicleNumber   string `json:"vehicleNumber" binding:"required"`
	Name            string `json:"name" binding:"required"`
	RegNumber       string `json:"regNumber" binding:"required"`
	TaskDescription string `json:"taskDescription"`
	Status          string `json:"status"`
}

type UpdateTaskRequest struct {
	VehicleNumber   string  `json:"vehicleNumber"`
	Name            string  `json:"name"`
	RegNumber       string  `json:"regNumber"`
	TaskDescription *string `json:"taskDescription"`
	Status          string  `json:"status"`
}
