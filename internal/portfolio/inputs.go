package portfolio

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// dateLayout is the calendar date format the API accepts
const dateLayout = "2006-01-02"

// ErrInvalidInput is returned when an input fails validation
var ErrInvalidInput = errors.New("invalid input")

// ProfileInput is the payload of createProfil/updateProfil
type ProfileInput struct {
	LastName  string      `json:"nom" yaml:"last_name" validate:"required,max=100"`
	FirstName string      `json:"prenom" yaml:"first_name" validate:"required,max=100"`
	Title     string      `json:"titre" yaml:"title" validate:"required,max=200"`
	Bio       string      `json:"bio" yaml:"bio"`
	Email     string      `json:"email" yaml:"email" validate:"required,email"`
	Phone     string      `json:"telephone" yaml:"phone"`
	Photo     string      `json:"photo" yaml:"photo" validate:"omitempty,url"`
	CV        string      `json:"cv" yaml:"cv" validate:"omitempty,url"`
	Social    SocialLinks `json:"reseauxSociaux" yaml:"social"`
	Address   Address     `json:"adresse" yaml:"address"`
}

// ProjectInput is the payload of createProjet/updateProjet. Optional links
// are omitted from the payload unless they are absolute http(s) URLs.
type ProjectInput struct {
	Title           string        `json:"titre" yaml:"title" validate:"required,max=200"`
	Description     string        `json:"description" yaml:"description" validate:"required"`
	LongDescription string        `json:"descriptionLongue,omitempty" yaml:"long_description"`
	Technologies    []string      `json:"technologies" yaml:"technologies" validate:"min=1,dive,required"`
	Images          []string      `json:"images" yaml:"images"`
	GitHubURL       string        `json:"lienGithub,omitempty" yaml:"github_url"`
	DemoURL         string        `json:"lienDemo,omitempty" yaml:"demo_url"`
	Status          ProjectStatus `json:"statut" yaml:"status" validate:"required,projectstatus"`
	StartDate       string        `json:"dateDebut" yaml:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string        `json:"dateFin,omitempty" yaml:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Order           int           `json:"ordre" yaml:"order" validate:"min=0"`
}

// SkillInput is the payload of createCompetence/updateCompetence
type SkillInput struct {
	Name       string        `json:"nom" yaml:"name" validate:"required,max=100"`
	Level      SkillLevel    `json:"niveau" yaml:"level" validate:"required,skilllevel"`
	Category   SkillCategory `json:"categorie" yaml:"category" validate:"required,skillcategory"`
	Percentage int           `json:"pourcentage" yaml:"percentage" validate:"min=0,max=100"`
	Icon       string        `json:"icone,omitempty" yaml:"icon"`
}

// ExperienceInput is the payload of createExperience/updateExperience.
// EndDate is sent as null while the experience is ongoing.
type ExperienceInput struct {
	Company     string         `json:"entreprise" yaml:"company" validate:"required,max=200"`
	Position    string         `json:"poste" yaml:"position" validate:"required,max=200"`
	Type        ExperienceType `json:"type" yaml:"type" validate:"required,experiencetype"`
	Description string         `json:"description" yaml:"description"`
	Skills      []string       `json:"competences" yaml:"skills" validate:"dive,required"`
	StartDate   string         `json:"dateDebut" yaml:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     *string        `json:"dateFin" yaml:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Current     bool           `json:"enCours" yaml:"current"`
	Location    string         `json:"lieu" yaml:"location"`
	Logo        string         `json:"logo" yaml:"logo"`
	Order       int            `json:"ordre" yaml:"order" validate:"min=0"`
}

// NewValidator returns a validator with the portfolio enumerations and
// date-range rules registered
func NewValidator() *validator.Validate {
	validate := validator.New()

	// Report fields under their API names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	validate.RegisterValidation("projectstatus", func(fl validator.FieldLevel) bool {
		return ProjectStatus(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("skilllevel", func(fl validator.FieldLevel) bool {
		return SkillLevel(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("skillcategory", func(fl validator.FieldLevel) bool {
		return SkillCategory(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("experiencetype", func(fl validator.FieldLevel) bool {
		return ExperienceType(fl.Field().String()).Valid()
	})

	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		in := sl.Current().Interface().(ProjectInput)
		if in.EndDate != "" && !after(in.EndDate, in.StartDate) {
			sl.ReportError(in.EndDate, "dateFin", "EndDate", "gtdate", "")
		}
	}, ProjectInput{})

	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		in := sl.Current().Interface().(ExperienceInput)
		if in.EndDate != nil && !in.Current && !after(*in.EndDate, in.StartDate) {
			sl.ReportError(*in.EndDate, "dateFin", "EndDate", "gtdate", "")
		}
	}, ExperienceInput{})

	return validate
}

// after reports whether date a is strictly after date b. Unparseable dates
// are left to the field-level datetime rule.
func after(a, b string) bool {
	end, err := time.Parse(dateLayout, a)
	if err != nil {
		return true
	}
	start, err := time.Parse(dateLayout, b)
	if err != nil {
		return true
	}
	return end.After(start)
}

// normalizeDate keeps the calendar part of an ISO timestamp
func normalizeDate(value string) string {
	value = strings.TrimSpace(value)
	if i := strings.IndexByte(value, 'T'); i >= 0 {
		value = value[:i]
	}
	return value
}

func linkOrEmpty(link string) string {
	link = strings.TrimSpace(link)
	if !strings.HasPrefix(link, "http") {
		return ""
	}
	return link
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Normalize trims the input and drops optional fields the API would reject
func (in ProjectInput) Normalize() ProjectInput {
	in.Title = strings.TrimSpace(in.Title)
	in.GitHubURL = linkOrEmpty(in.GitHubURL)
	in.DemoURL = linkOrEmpty(in.DemoURL)
	in.Images = compact(in.Images)
	in.Technologies = compact(in.Technologies)
	in.StartDate = normalizeDate(in.StartDate)
	in.EndDate = normalizeDate(in.EndDate)
	return in
}

func (in SkillInput) Normalize() SkillInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Level = SkillLevel(strings.ToUpper(string(in.Level)))
	in.Category = SkillCategory(strings.ToUpper(string(in.Category)))
	return in
}

func (in ExperienceInput) Normalize() ExperienceInput {
	in.Company = strings.TrimSpace(in.Company)
	in.Position = strings.TrimSpace(in.Position)
	in.Type = ExperienceType(strings.ToUpper(string(in.Type)))
	in.Skills = compact(in.Skills)
	in.StartDate = normalizeDate(in.StartDate)
	if in.Current || in.EndDate == nil || normalizeDate(*in.EndDate) == "" {
		in.EndDate = nil
	} else {
		end := normalizeDate(*in.EndDate)
		in.EndDate = &end
	}
	return in
}

func (in ProfileInput) Normalize() ProfileInput {
	in.LastName = strings.TrimSpace(in.LastName)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.Email = strings.TrimSpace(in.Email)
	return in
}

// ProjectInputFrom prefills an input from an existing project
func ProjectInputFrom(p Project) ProjectInput {
	ids := make([]string, 0, len(p.Technologies))
	for _, t := range p.Technologies {
		ids = append(ids, t.ID)
	}
	return ProjectInput{
		Title:           p.Title,
		Description:     p.Description,
		LongDescription: p.LongDescription,
		Technologies:    ids,
		Images:          p.Images,
		GitHubURL:       p.GitHubURL,
		DemoURL:         p.DemoURL,
		Status:          p.Status,
		StartDate:       normalizeDate(p.StartDate),
		EndDate:         normalizeDate(p.EndDate),
		Order:           p.Order,
	}
}

// SkillInputFrom prefills an input from an existing skill
func SkillInputFrom(s Skill) SkillInput {
	return SkillInput{Name: s.Name, Level: s.Level, Category: s.Category, Percentage: s.Percentage, Icon: s.Icon}
}

// ExperienceInputFrom prefills an input from an existing experience
func ExperienceInputFrom(e Experience) ExperienceInput {
	ids := make([]string, 0, len(e.Skills))
	for _, s := range e.Skills {
		ids = append(ids, s.ID)
	}
	in := ExperienceInput{
		Company:     e.Company,
		Position:    e.Position,
		Type:        e.Type,
		Description: e.Description,
		Skills:      ids,
		StartDate:   normalizeDate(e.StartDate),
		Current:     e.Current,
		Location:    e.Location,
		Logo:        e.Logo,
		Order:       e.Order,
	}
	if e.EndDate != "" {
		end := normalizeDate(e.EndDate)
		in.EndDate = &end
	}
	return in
}

// ProfileInputFrom prefills an input from an existing profile
func ProfileInputFrom(p Profile) ProfileInput {
	return ProfileInput{
		LastName:  p.LastName,
		FirstName: p.FirstName,
		Title:     p.Title,
		Bio:       p.Bio,
		Email:     p.Email,
		Phone:     p.Phone,
		Photo:     p.Photo,
		CV:        p.CV,
		Social:    p.Social,
		Address:   p.Address,
	}
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, ", "))
}
