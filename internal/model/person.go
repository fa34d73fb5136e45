package model

// Read-only views over the access-control product's person tables. The
// schema belongs to the upstream product; these models name only the
// columns this service reads and are never migrated by us.

// Person is the primary person record, keyed by the external badge pin.
type Person struct {
	ID          string `gorm:"column:id;primaryKey"`
	Pin         string `gorm:"column:pin"`
	Name        string `gorm:"column:name"`
	Gender      string `gorm:"column:gender"` // single-character code: M / F
	Email       string `gorm:"column:email"`
	MobilePhone string `gorm:"column:mobile_phone"`
	Birthday    string `gorm:"column:birthday"`
}

func (Person) TableName() string { return "pers_person" }

// PersonAttributeExt carries extension attributes keyed by the internal
// person id, including the employee number.
type PersonAttributeExt struct {
	PersonID   string `gorm:"column:person_id;primaryKey"`
	EmployeeNo string `gorm:"column:employee_no"`
}

func (PersonAttributeExt) TableName() string { return "pers_attribute_ext" }

// ParkPerson links a badge pin to a vehicle registration.
type ParkPerson struct {
	ID            string `gorm:"column:id;primaryKey"`
	PersPersonPin string `gorm:"column:pers_person_pin"`
}

func (ParkPerson) TableName() string { return "park_person" }

// ParkCarNumber holds the registered plate for a vehicle registration.
type ParkCarNumber struct {
	ID        string `gorm:"column:id;primaryKey"`
	CarNumber string `gorm:"column:car_number"`
}

func (ParkCarNumber) TableName() string { return "park_car_number" }

// AccPerson is the access-control person record; a disabled row marks a
// blacklisted badge.
type AccPerson struct {
	ID       string `gorm:"column:id;primaryKey"`
	PersonID string `gorm:"column:person_id"`
	Disabled bool   `gorm:"column:disabled"`
}

func (AccPerson) TableName() string { return "acc_person" }

// AttPerson is the attendance person record, carrying the display fields
// the blacklist report surfaces.
type AttPerson struct {
	PersPersonPin string `gorm:"column:pers_person_pin;primaryKey"`
	DeptName      string `gorm:"column:dept_name"`
	Name          string `gorm:"column:name"`
	Pin           string `gorm:"column:pin"`
}

func (AttPerson) TableName() string { return "att_person" }
