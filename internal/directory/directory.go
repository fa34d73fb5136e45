// Package directory resolves enrichment details for badge pins from the
// access-control product's relational store. Lookups walk a chain of
// joins; a missing link short-circuits with whatever fields resolved so
// far. Missing data is never an error, only an empty field.
package directory

import (
	"context"
	"errors"
	"log"
	"sync"

	"gorm.io/gorm"

	"presence-monitor-backend/internal/model"
	"presence-monitor-backend/internal/store"
)

// Cycle caches person lookups for the lifetime of one tracker cycle. It
// is discarded with the cycle, so details can never go stale across
// refreshes. Safe for concurrent use.
type Cycle struct {
	db    *gorm.DB
	mu    sync.Mutex
	cache map[string]store.PersonDetail
}

// NewCycle creates a lookup cache scoped to a single tracker cycle.
func NewCycle(db *gorm.DB) *Cycle {
	return &Cycle{
		db:    db,
		cache: make(map[string]store.PersonDetail),
	}
}

// Lookup returns the enrichment detail for a badge pin. The time and name
// overrides come from the event stream and are applied per call, on top of
// the cached record. The second return value is false when no usable
// person record exists; the caller still counts such a person, just
// without a detail row.
func (c *Cycle) Lookup(ctx context.Context, pin, lastTime, name string) (store.PersonDetail, bool) {
	c.mu.Lock()
	cached, hit := c.cache[pin]
	c.mu.Unlock()

	if hit {
		return applyOverrides(cached, lastTime, name), true
	}

	detail, ok := c.fetch(ctx, pin)
	if !ok {
		return store.PersonDetail{}, false
	}

	c.mu.Lock()
	c.cache[pin] = detail
	c.mu.Unlock()

	return applyOverrides(detail, lastTime, name), true
}

func applyOverrides(detail store.PersonDetail, lastTime, name string) store.PersonDetail {
	detail.Time = lastTime
	if name != "" {
		detail.Name = name
	}
	return detail
}

// fetch walks the join chain: person by pin, extension attributes by the
// internal person id, vehicle registration by pin, plate by registration
// id. Each optional link that is absent just leaves its field empty.
func (c *Cycle) fetch(ctx context.Context, pin string) (store.PersonDetail, bool) {
	if c.db == nil {
		return store.PersonDetail{}, false
	}

	var person model.Person
	if err := c.db.WithContext(ctx).First(&person, "pin = ?", pin).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("directory: failed to look up person %s: %v", pin, err)
		}
		return store.PersonDetail{}, false
	}

	detail := store.PersonDetail{
		Name:     person.Name,
		ID:       pin,
		Gender:   genderLabel(person.Gender),
		Email:    person.Email,
		Phone:    person.MobilePhone,
		Birthday: person.Birthday,
	}

	var ext model.PersonAttributeExt
	err := c.db.WithContext(ctx).First(&ext, "person_id = ?", person.ID).Error
	switch {
	case err == nil:
		detail.EmployeeNo = ext.EmployeeNo
	case !errors.Is(err, gorm.ErrRecordNotFound):
		log.Printf("directory: failed to look up attributes for person %s: %v", pin, err)
	}

	var park model.ParkPerson
	err = c.db.WithContext(ctx).First(&park, "pers_person_pin = ?", pin).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("directory: failed to look up vehicle registration for person %s: %v", pin, err)
		}
		return detail, true
	}

	var car model.ParkCarNumber
	err = c.db.WithContext(ctx).First(&car, "id = ?", park.ID).Error
	switch {
	case err == nil:
		detail.Plate = car.CarNumber
	case !errors.Is(err, gorm.ErrRecordNotFound):
		log.Printf("directory: failed to look up plate for person %s: %v", pin, err)
	}

	return detail, true
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
