package domain

type TagType string

const (
	TagWebDevelopment    TagType = "WEB DEVELOPMENT"
	TagMobileDevelopment TagType = "MOBILE DEVELOPMENT"
	TagDataScience       TagType = "DATA SCIENCE"
	TagMachineLearning   TagType = "MACHINE LEARNING"
	TagDevOps            TagType = "DEVOPS"
	TagUiUxDesign        TagType = "UI/UX DESIGN"
	TagCybersecurity     TagType = "CYBERSECURITY"
	TagCloudComputing    TagType = "CLOUD COMPUTING"
	TagGameDevelopment   TagType = "GAME DEVELOPMENT"
	TagDatabases         TagType = "DATABASES"
)

var tagTypes = map[TagType]struct{}{
	TagWebDevelopment:    {},
	TagMobileDevelopment: {},
	TagDataScience:       {},
	TagMachineLearning:   {},
	TagDevOps:            {},
	TagUiUxDesign:        {},
	TagCybersecurity:     {},
	TagCloudComputing:    {},
	TagGameDevelopment:   {},
	TagDatabases:         {},
}

func (t TagType) Valid() bool {
	_, ok := tagTypes[t]
	return ok
}

// ThreadTag is stored per-thread, cascade-deleted with its thread.
type ThreadTag struct {
	Id      TagId   `json:"threadTagId"`
	TagType TagType `json:"tagType"`
}
