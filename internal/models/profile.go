package models

import (
	"bytes"
	"encoding/json"
)

// Demographics is either free text or a fixed-shape record. Text wins when set.
type Demographics struct {
	Text         string   `json:"-"`
	CompanySize  string   `json:"companySize,omitempty"`
	Industries   []string `json:"industries,omitempty"`
	Regions      []string `json:"regions,omitempty"`
	JobTitles    []string `json:"jobTitles,omitempty"`
	TechAdoption string   `json:"techAdoption,omitempty"`
}

type demographicsRecord Demographics

func (d Demographics) IsZero() bool {
	return d.Text == "" && d.CompanySize == "" && d.TechAdoption == "" &&
		len(d.Industries) == 0 && len(d.Regions) == 0 && len(d.JobTitles) == 0
}

func (d Demographics) MarshalJSON() ([]byte, error) {
	if d.Text != "" {
		return json.Marshal(d.Text)
	}
	return json.Marshal(demographicsRecord(d))
}

func (d *Demographics) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*d = Demographics{}
		return json.Unmarshal(data, &d.Text)
	}
	if bytes.Equal(data, []byte("null")) {
		*d = Demographics{}
		return nil
	}
	var rec demographicsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*d = Demographics(rec)
	return nil
}

// ICP is an Ideal Customer Profile.
type ICP struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Demographics Demographics `json:"demographics"`
	PainPoints   []string     `json:"painPoints"`
	Goals        []string     `json:"goals"`
	Custom       bool         `json:"isCustom,omitempty"`
}

// USP is a Unique Selling Point. TargetICP references an ICP by title.
type USP struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	TargetICP        string `json:"targetICP"`
	ValueProposition string `json:"valueProposition"`
	Custom           bool   `json:"isCustom,omitempty"`
}
