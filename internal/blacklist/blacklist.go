// Package blacklist produces the disabled-badge report: every person whose
// access-control record is disabled, joined with their attendance and
// extension details.
package blacklist

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"presence-monitor-backend/internal/model"
)

// Entry is one disabled badge in the report.
type Entry struct {
	Site       string `json:"site"`
	Dept       string `json:"dept"`
	Photo      string `json:"foto"`
	Name       string `json:"name"`
	Gender     string `json:"gender"`
	ID         string `json:"id"`
	EmployeeNo string `json:"nipeg"`
}

// Report wraps the blacklist entries for serving.
type Report struct {
	Data []Entry `json:"data"`
}

// BuildReport collects all disabled access-control persons. A person whose
// joined records are partially missing still appears with the fields that
// resolved; only a database failure on the primary query errors out.
func BuildReport(ctx context.Context, db *gorm.DB, siteLabel string) (Report, error) {
	report := Report{Data: []Entry{}}

	var disabled []model.AccPerson
	if err := db.WithContext(ctx).Where("disabled = ?", true).Find(&disabled).Error; err != nil {
		return Report{}, fmt.Errorf("failed to list disabled access persons: %w", err)
	}

	for _, acc := range disabled {
		var person model.Person
		if err := db.WithContext(ctx).First(&person, "id = ?", acc.PersonID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("blacklist: failed to look up person %s: %v", acc.PersonID, err)
			}
			continue
		}

		entry := Entry{
			Site:   siteLabel,
			Gender: genderLabel(person.Gender),
		}

		var ext model.PersonAttributeExt
		err := db.WithContext(ctx).First(&ext, "person_id = ?", person.ID).Error
		switch {
		case err == nil:
			entry.EmployeeNo = ext.EmployeeNo
		case !errors.Is(err, gorm.ErrRecordNotFound):
			log.Printf("blacklist: failed to look up attributes for person %s: %v", person.Pin, err)
		}

		var att model.AttPerson
		err = db.WithContext(ctx).First(&att, "pers_person_pin = ?", person.Pin).Error
		switch {
		case err == nil:
			entry.Dept = att.DeptName
			entry.Name = att.Name
			entry.ID = att.Pin
		case !errors.Is(err, gorm.ErrRecordNotFound):
			log.Printf("blacklist: failed to look up attendance record for person %s: %v", person.Pin, err)
		}

		report.Data = append(report.Data, entry)
	}

	return report, nil
}

func genderLabel(code string) string {
	switch code {
	case "M":
		return "Male"
	case "F":
		return "Female"
	default:
		return ""
	}
}
