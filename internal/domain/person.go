package domain

import (
	"context"
	"strings"
	"time"

	"matrimony-backend/internal/filter"
)

const (
	PersonStatusApproved = "approved"
	PersonStatusPending  = "pending"

	PersonSourceAdmin  = "admin"
	PersonSourcePublic = "public"
)

// Person is one matrimonial candidate profile.
type Person struct {
	ID            string    `json:"id" bson:"_id"`
	Name          string    `json:"name" bson:"name"`
	Gender        string    `json:"gender" bson:"gender"`
	MaritalStatus string    `json:"maritalStatus" bson:"maritalStatus"`
	Religion      string    `json:"religion" bson:"religion"`
	Gotra         string    `json:"gotra" bson:"gotra"`
	Area          string    `json:"area" bson:"area"`
	State         string    `json:"state" bson:"state"`
	Height        string    `json:"height" bson:"height"`
	Complexion    string    `json:"complexion" bson:"complexion"`
	NativePlace   string    `json:"nativePlace" bson:"nativePlace"`
	DateOfBirth   string    `json:"dateOfBirth" bson:"dateOfBirth"`
	Education     string    `json:"education" bson:"education"`
	Occupation    string    `json:"occupation" bson:"occupation"`
	FatherName    string    `json:"fatherName" bson:"fatherName"`
	MotherName    string    `json:"motherName" bson:"motherName"`
	ContactNumber string    `json:"contactNumber" bson:"contactNumber"`
	Email         string    `json:"email" bson:"email"`
	Address       string    `json:"address" bson:"address"`
	About         string    `json:"about" bson:"about"`
	Budget        string    `json:"budget" bson:"budget"`
	BudgetNumeric *float64  `json:"budgetNumeric,omitempty" bson:"budgetNumeric,omitempty"`
	Photos        []string  `json:"photos" bson:"photos"`
	Status        string    `json:"status" bson:"status"`
	Source        string    `json:"source" bson:"source"`
	CreatedBy     string    `json:"createdBy" bson:"createdBy"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// SetBudget stores the display budget and re-derives BudgetNumeric from it.
func (p *Person) SetBudget(budget string) {
	p.Budget = strings.TrimSpace(budget)
	p.BudgetNumeric = filter.NumericBudget(p.Budget)
}

// PersonInput is the form payload for creating a profile (admin or public form).
type PersonInput struct {
	Name          string `form:"name" json:"name" validate:"required,min=2,max=100,valid_name,no_emoji"`
	Gender        string `form:"gender" json:"gender" validate:"required,max=20"`
	MaritalStatus string `form:"maritalStatus" json:"maritalStatus" validate:"required,max=40"`
	Religion      string `form:"religion" json:"religion" validate:"required,max=60"`
	Gotra         string `form:"gotra" json:"gotra" validate:"max=60"`
	Area          string `form:"area" json:"area" validate:"max=100"`
	State         string `form:"state" json:"state" validate:"max=60"`
	Height        string `form:"height" json:"height" validate:"max=20"`
	Complexion    string `form:"complexion" json:"complexion" validate:"max=40"`
	NativePlace   string `form:"nativePlace" json:"nativePlace" validate:"max=100"`
	DateOfBirth   string `form:"dateOfBirth" json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Education     string `form:"education" json:"education" validate:"max=200"`
	Occupation    string `form:"occupation" json:"occupation" validate:"max=200"`
	FatherName    string `form:"fatherName" json:"fatherName" validate:"max=100,valid_name"`
	MotherName    string `form:"motherName" json:"motherName" validate:"max=100,valid_name"`
	ContactNumber string `form:"contactNumber" json:"contactNumber" validate:"omitempty,valid_phone"`
	Email         string `form:"email" json:"email" validate:"omitempty,email"`
	Address       string `form:"address" json:"address" validate:"max=500"`
	About         string `form:"about" json:"about" validate:"max=2000"`
	Budget        string `form:"budget" json:"budget" validate:"max=60"`
}

// PersonUpdate carries only the fields present in an edit request.
type PersonUpdate struct {
	Name          *string `form:"name" validate:"omitempty,min=2,max=100,valid_name,no_emoji"`
	Gender        *string `form:"gender" validate:"omitempty,max=20"`
	MaritalStatus *string `form:"maritalStatus" validate:"omitempty,max=40"`
	Religion      *string `form:"religion" validate:"omitempty,max=60"`
	Gotra         *string `form:"gotra" validate:"omitempty,max=60"`
	Area          *string `form:"area" validate:"omitempty,max=100"`
	State         *string `form:"state" validate:"omitempty,max=60"`
	Height        *string `form:"height" validate:"omitempty,max=20"`
	Complexion    *string `form:"complexion" validate:"omitempty,max=40"`
	NativePlace   *string `form:"nativePlace" validate:"omitempty,max=100"`
	DateOfBirth   *string `form:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Education     *string `form:"education" validate:"omitempty,max=200"`
	Occupation    *string `form:"occupation" validate:"omitempty,max=200"`
	FatherName    *string `form:"fatherName" validate:"omitempty,max=100,valid_name"`
	MotherName    *string `form:"motherName" validate:"omitempty,max=100,valid_name"`
	ContactNumber *string `form:"contactNumber" validate:"omitempty,valid_phone"`
	Email         *string `form:"email" validate:"omitempty,email"`
	Address       *string `form:"address" validate:"omitempty,max=500"`
	About         *string `form:"about" validate:"omitempty,max=2000"`
	Budget        *string `form:"budget" validate:"omitempty,max=60"`
	PhotoMode     string  `form:"photoMode" validate:"omitempty,oneof=append replace"`
}

// NewPerson builds a profile from a create payload. Budget is normalized here
// so BudgetNumeric is always derived at write time.
func NewPerson(in PersonInput) *Person {
	p := &Person{
		Name:          strings.TrimSpace(in.Name),
		Gender:        strings.TrimSpace(in.Gender),
		MaritalStatus: strings.TrimSpace(in.MaritalStatus),
		Religion:      strings.TrimSpace(in.Religion),
		Gotra:         strings.TrimSpace(in.Gotra),
		Area:          strings.TrimSpace(in.Area),
		State:         strings.TrimSpace(in.State),
		Height:        strings.TrimSpace(in.Height),
		Complexion:    strings.TrimSpace(in.Complexion),
		NativePlace:   strings.TrimSpace(in.NativePlace),
		DateOfBirth:   strings.TrimSpace(in.DateOfBirth),
		Education:     strings.TrimSpace(in.Education),
		Occupation:    strings.TrimSpace(in.Occupation),
		FatherName:    strings.TrimSpace(in.FatherName),
		MotherName:    strings.TrimSpace(in.MotherName),
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		Email:         strings.TrimSpace(in.Email),
		Address:       strings.TrimSpace(in.Address),
		About:         strings.TrimSpace(in.About),
		Photos:        []string{},
	}
	p.SetBudget(in.Budget)
	return p
}

// Apply copies the present fields of u onto p.
func (p *Person) Apply(u PersonUpdate) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&p.Name, u.Name)
	set(&p.Gender, u.Gender)
	set(&p.MaritalStatus, u.MaritalStatus)
	set(&p.Religion, u.Religion)
	set(&p.Gotra, u.Gotra)
	set(&p.Area, u.Area)
	set(&p.State, u.State)
	set(&p.Height, u.Height)
	set(&p.Complexion, u.Complexion)
	set(&p.NativePlace, u.NativePlace)
	set(&p.DateOfBirth, u.DateOfBirth)
	set(&p.Education, u.Education)
	set(&p.Occupation, u.Occupation)
	set(&p.FatherName, u.FatherName)
	set(&p.MotherName, u.MotherName)
	set(&p.ContactNumber, u.ContactNumber)
	set(&p.Email, u.Email)
	set(&p.Address, u.Address)
	set(&p.About, u.About)
	if u.Budget != nil {
		p.SetBudget(*u.Budget)
	}
}

// PhotoUpload is a validated, already-compressed photo waiting to be stored.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PhotoStore persists profile photos and hands back their public URL.
type PhotoStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Load(ctx context.Context, url string) ([]byte, error)
	Delete(ctx context.Context, url string) error
}

// PersonRepository is the Profile Store. List receives the predicate built by
// the filter package verbatim and returns matches newest first; pageSize <= 0
// returns every match. Missing records yield ErrNotFound.
type PersonRepository interface {
	Create(ctx context.Context, person *Person) error
	GetByID(ctx context.Context, id string) (*Person, error)
	Update(ctx context.Context, person *Person) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pred filter.Predicate, page, pageSize int) ([]Person, int64, error)
}

type PersonUsecase interface {
	List(ctx context.Context, filters map[string]string, page, pageSize int) (*PaginatedResult[Person], error)
	Get(ctx context.Context, id string) (*Person, error)
	Create(ctx context.Context, in PersonInput, photos []PhotoUpload) (*Person, error)
	Update(ctx context.Context, id string, upd PersonUpdate, photos []PhotoUpload) (*Person, error)
	Delete(ctx context.Context, id string) error
	Approve(ctx context.Context, id string) (*Person, error)
	Submit(ctx context.Context, in PersonInput, photos []PhotoUpload) (*Person, error)
	ExportPDF(ctx context.Context, id string) ([]byte, string, error)
	ExportSpreadsheet(ctx context.Context, filters map[string]string) ([]byte, string, error)
}
