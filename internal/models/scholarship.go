package models

import "time"

const ScholarshipStatusArchived = "archived"

type Scholarship struct {
	ID                  string    `json:"id" bson:"_id"`
	Title               string    `json:"title" bson:"title"`
	University          string    `json:"university" bson:"university,omitempty"`
	Country             string    `json:"country" bson:"country,omitempty"`
	Amount              string    `json:"amount" bson:"amount,omitempty"`
	Deadline            time.Time `json:"deadline" bson:"deadline"`
	ApplicationURL      string    `json:"application_url" bson:"application_url,omitempty"`
	Description         string    `json:"description" bson:"description,omitempty"`
	Requirements        []string  `json:"requirements" bson:"requirements,omitempty"`
	EligibilityCriteria []string  `json:"eligibility_criteria" bson:"eligibility_criteria,omitempty"`
	Status              string    `json:"status" bson:"status,omitempty"`
	CreatedAt           time.Time `json:"created_at" bson:"created_at"`
}
