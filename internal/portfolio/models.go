// Package portfolio exposes the portfolio API (profile, projects, skills,
// experiences and authentication) on top of the GraphQL client.
package portfolio

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	StatusInProgress ProjectStatus = "EN_COURS"
	StatusDone       ProjectStatus = "TERMINE"
	StatusArchived   ProjectStatus = "ARCHIVE"
)

// ProjectStatuses lists every status in display order
var ProjectStatuses = []ProjectStatus{StatusInProgress, StatusDone, StatusArchived}

// SkillLevel is the self-assessed mastery of a skill
type SkillLevel string

const (
	LevelBeginner     SkillLevel = "DEBUTANT"
	LevelIntermediate SkillLevel = "INTERMEDIAIRE"
	LevelAdvanced     SkillLevel = "AVANCE"
	LevelExpert       SkillLevel = "EXPERT"
)

var SkillLevels = []SkillLevel{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert}

// SkillCategory groups skills on the public skills page
type SkillCategory string

const (
	CategoryFrontend SkillCategory = "FRONTEND"
	CategoryBackend  SkillCategory = "BACKEND"
	CategoryDatabase SkillCategory = "DATABASE"
	CategoryDevOps   SkillCategory = "DEVOPS"
	CategoryOther    SkillCategory = "AUTRE"
)

var SkillCategories = []SkillCategory{CategoryFrontend, CategoryBackend, CategoryDatabase, CategoryDevOps, CategoryOther}

// ExperienceType is the contract type of an experience
type ExperienceType string

const (
	TypePermanent  ExperienceType = "CDI"
	TypeFixedTerm  ExperienceType = "CDD"
	TypeFreelance  ExperienceType = "FREELANCE"
	TypeInternship ExperienceType = "STAGE"
	TypeWorkStudy  ExperienceType = "ALTERNANCE"
)

var ExperienceTypes = []ExperienceType{TypePermanent, TypeFixedTerm, TypeFreelance, TypeInternship, TypeWorkStudy}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func (s ProjectStatus) Valid() bool  { return contains(ProjectStatuses, s) }
func (l SkillLevel) Valid() bool     { return contains(SkillLevels, l) }
func (c SkillCategory) Valid() bool  { return contains(SkillCategories, c) }
func (t ExperienceType) Valid() bool { return contains(ExperienceTypes, t) }

// SocialLinks are the profile's external accounts
type SocialLinks struct {
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin,omitempty" validate:"omitempty,url"`
	GitHub   string `json:"github,omitempty" yaml:"github,omitempty" validate:"omitempty,url"`
	Twitter  string `json:"twitter,omitempty" yaml:"twitter,omitempty" validate:"omitempty,url"`
	Website  string `json:"website,omitempty" yaml:"website,omitempty" validate:"omitempty,url"`
}

// Address is the profile's location
type Address struct {
	City    string `json:"ville,omitempty" yaml:"city,omitempty"`
	Country string `json:"pays,omitempty" yaml:"country,omitempty"`
}

// Profile is the portfolio owner's public identity
type Profile struct {
	ID        string      `json:"id" yaml:"id"`
	LastName  string      `json:"nom" yaml:"last_name"`
	FirstName string      `json:"prenom" yaml:"first_name"`
	Title     string      `json:"titre" yaml:"title"`
	Bio       string      `json:"bio,omitempty" yaml:"bio,omitempty"`
	Email     string      `json:"email" yaml:"email"`
	Phone     string      `json:"telephone,omitempty" yaml:"phone,omitempty"`
	Photo     string      `json:"photo,omitempty" yaml:"photo,omitempty"`
	CV        string      `json:"cv,omitempty" yaml:"cv,omitempty"`
	Social    SocialLinks `json:"reseauxSociaux" yaml:"social"`
	Address   Address     `json:"adresse" yaml:"address"`
	CreatedAt string      `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt string      `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
}

// FullName returns "first last"
func (p Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Skill is a technology or competence
type Skill struct {
	ID         string        `json:"id" yaml:"id"`
	Name       string        `json:"nom" yaml:"name"`
	Level      SkillLevel    `json:"niveau,omitempty" yaml:"level,omitempty"`
	Category   SkillCategory `json:"categorie,omitempty" yaml:"category,omitempty"`
	Percentage int           `json:"pourcentage,omitempty" yaml:"percentage,omitempty"`
	Icon       string        `json:"icone,omitempty" yaml:"icon,omitempty"`
	CreatedAt  string        `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt  string        `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
}

// Project is a portfolio project
type Project struct {
	ID              string        `json:"id" yaml:"id"`
	Title           string        `json:"titre" yaml:"title"`
	Description     string        `json:"description" yaml:"description"`
	LongDescription string        `json:"descriptionLongue,omitempty" yaml:"long_description,omitempty"`
	Technologies    []Skill       `json:"technologies" yaml:"technologies"`
	Images          []string      `json:"images" yaml:"images,omitempty"`
	GitHubURL       string        `json:"lienGithub,omitempty" yaml:"github_url,omitempty"`
	DemoURL         string        `json:"lienDemo,omitempty" yaml:"demo_url,omitempty"`
	Status          ProjectStatus `json:"statut" yaml:"status"`
	StartDate       string        `json:"dateDebut,omitempty" yaml:"start_date,omitempty"`
	EndDate         string        `json:"dateFin,omitempty" yaml:"end_date,omitempty"`
	Order           int           `json:"ordre" yaml:"order"`
	CreatedAt       string        `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt       string        `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
}

// Experience is a professional experience
type Experience struct {
	ID          string         `json:"id" yaml:"id"`
	Company     string         `json:"entreprise" yaml:"company"`
	Position    string         `json:"poste" yaml:"position"`
	Type        ExperienceType `json:"type" yaml:"type"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Skills      []Skill        `json:"competences" yaml:"skills,omitempty"`
	StartDate   string         `json:"dateDebut" yaml:"start_date"`
	EndDate     string         `json:"dateFin,omitempty" yaml:"end_date,omitempty"`
	Current     bool           `json:"enCours" yaml:"current"`
	Location    string         `json:"lieu,omitempty" yaml:"location,omitempty"`
	Logo        string         `json:"logo,omitempty" yaml:"logo,omitempty"`
	Order       int            `json:"ordre" yaml:"order"`
	CreatedAt   string         `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt   string         `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
}

// Portfolio is everything the home page shows, fetched in one round trip
type Portfolio struct {
	Profile     *Profile     `json:"profil" yaml:"profile"`
	Projects    []Project    `json:"projets" yaml:"projects"`
	Skills      []Skill      `json:"competences" yaml:"skills"`
	Experiences []Experience `json:"experiences" yaml:"experiences"`
}

// User is the account returned by login and register
type User struct {
	ID       string `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email" yaml:"email"`
	Role     string `json:"role" yaml:"role"`
}

// SkillGroup is one category of skills
type SkillGroup struct {
	Category SkillCategory `json:"category" yaml:"category"`
	Skills   []Skill       `json:"skills" yaml:"skills"`
}

// SkillsByCategory groups skills in category display order. Empty
// categories are left out; unknown categories are grouped under AUTRE.
func SkillsByCategory(skills []Skill) []SkillGroup {
	buckets := make(map[SkillCategory][]Skill)
	for _, skill := range skills {
		category := skill.Category
		if !category.Valid() {
			category = CategoryOther
		}
		buckets[category] = append(buckets[category], skill)
	}

	groups := make([]SkillGroup, 0, len(buckets))
	for _, category := range SkillCategories {
		if len(buckets[category]) > 0 {
			groups = append(groups, SkillGroup{Category: category, Skills: buckets[category]})
		}
	}
	return groups
}
