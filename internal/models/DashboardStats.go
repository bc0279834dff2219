package models

type MonthlyCount struct {
	CurrentMonth int `json:"currentMonth"`
	LastMonth    int `json:"lastMonth"`
}

type RoleCount struct {
	Total        int `json:"total"`
	CurrentMonth int `json:"currentMonth"`
	LastMonth    int `json:"lastMonth"`
}

type DashboardStats struct {
	TotalUsers   int          `json:"totalUsers"`
	UsersJoined  MonthlyCount `json:"usersJoined"`
	UserRole     RoleCount    `json:"userRole"`
	TotalTrips   int          `json:"totalTrips"`
	TripsCreated MonthlyCount `json:"tripsCreated"`
}

type GrowthPoint struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type TravelStyleCount struct {
	TravelStyle string `json:"travelStyle"`
	Count       int    `json:"count"`
}
