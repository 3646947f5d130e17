package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	OrgStatusActive    = "active"
	OrgStatusInactive  = "inactive"
	OrgStatusSuspended = "suspended"
)

// StringList maps a jsonb array column to a []string. The stored order is
// incidental; callers treat the column as a set.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("domain: unsupported source for StringList")
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Contains reports set membership.
func (l StringList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

type Organization struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	OrgName       string     `db:"org_name" json:"org_name"`
	OrgCode       string     `db:"org_code" json:"org_code"`
	DarkLogo      *string    `db:"dark_logo" json:"dark_logo,omitempty"`
	LightLogo     *string    `db:"light_logo" json:"light_logo,omitempty"`
	Plans         StringList `db:"plans" json:"plans"`
	Users         StringList `db:"users" json:"users"`
	Status        string     `db:"status" json:"status"`
	SignupEnabled bool       `db:"signup_enabled" json:"signup_enabled"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

func ValidOrgStatus(status string) bool {
	switch status {
	case OrgStatusActive, OrgStatusInactive, OrgStatusSuspended:
		return true
	}
	return false
}
