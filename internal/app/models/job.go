package models

import "time"

// Job is a JSearch result record
type Job struct {
	ID                  string              `json:"job_id"`
	Title               string              `json:"job_title"`
	EmployerName        string              `json:"employer_name"`
	EmployerLogo        string              `json:"employer_logo,omitempty"`
	EmployerWebsite     string              `json:"employer_website,omitempty"`
	Publisher           string              `json:"job_publisher,omitempty"`
	EmploymentType      string              `json:"job_employment_type"`
	ApplyLink           string              `json:"job_apply_link"`
	Description         string              `json:"job_description"`
	IsRemote            bool                `json:"job_is_remote"`
	PostedAtTimestamp   int64               `json:"job_posted_at_timestamp,omitempty"`
	City                string              `json:"job_city,omitempty"`
	State               string              `json:"job_state,omitempty"`
	Country             string              `json:"job_country,omitempty"`
	MinSalary           float64             `json:"job_min_salary,omitempty"`
	MaxSalary           float64             `json:"job_max_salary,omitempty"`
	Salary              string              `json:"job_salary,omitempty"`
	SalaryPeriod        string              `json:"job_salary_period,omitempty"`
	RequiredSkills      []string            `json:"job_required_skills,omitempty"`
	RequiredEducation   *JobEducation       `json:"job_required_education,omitempty"`
	RequiredExperience  *JobExperience      `json:"job_required_experience,omitempty"`
	Highlights          map[string][]string `json:"job_highlights,omitempty"`
}

// JobEducation lists the degrees a posting mentions
type JobEducation struct {
	PostgraduateDegree bool `json:"postgraduate_degree"`
	ProfessionalCert   bool `json:"professional_certification"`
	HighSchool         bool `json:"high_school"`
	AssociatesDegree   bool `json:"associates_degree"`
	BachelorsDegree    bool `json:"bachelors_degree"`
	DegreeMentioned    bool `json:"degree_mentioned"`
}

// JobExperience is the experience requirement of a posting
type JobExperience struct {
	NoExperienceRequired bool `json:"no_experience_required"`
	RequiredMonths       int  `json:"required_experience_in_months"`
}

// PostedAt converts the unix timestamp, zero when absent
func (j Job) PostedAt() time.Time {
	if j.PostedAtTimestamp == 0 {
		return time.Time{}
	}
	return time.Unix(j.PostedAtTimestamp, 0)
}

// JobComment is a backend-hosted comment with an optional rating, keyed by
// the external job id.
type JobComment struct {
	ID        string    `json:"_id"`
	JobID     string    `json:"jobId"`
	User      UserRef   `json:"user"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AverageRating averages the non-zero ratings of comments
func AverageRating(comments []JobComment) float64 {
	sum, n := 0, 0
	for _, c := range comments {
		if c.Rating > 0 {
			sum += c.Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
