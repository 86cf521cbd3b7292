package models

// InstanceInfo represents EC2 instance information
type InstanceInfo struct {
	InstanceID      string
	InstanceType    string
	Platform        string
	PlatformDetails string
	Region          string
}
