package adminapi

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Theme is a created theme.
type Theme struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created"`
}

// Methodology is a created methodology.
type Methodology struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created"`
}

// ExternalMethodology is a publication's external methodology link.
type ExternalMethodology struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Invite is a pending user invite.
type Invite struct {
	ID                   string            `json:"id"`
	Email                string            `json:"email"`
	RoleID               string            `json:"roleId"`
	UserReleaseRoles     []ReleaseRole     `json:"userReleaseRoles"`
	UserPublicationRoles []PublicationRole `json:"userPublicationRoles"`
	CreatedAt            time.Time         `json:"created"`
}

// ReleaseRole grants an invited user a role on a release.
type ReleaseRole struct {
	ReleaseID   string `json:"releaseId"`
	ReleaseRole string `json:"releaseRole"`
}

// PublicationRole grants an invited user a role on a publication.
type PublicationRole struct {
	PublicationID   string `json:"publicationId"`
	PublicationRole string `json:"publicationRole"`
}

// Contact is a publication's contact.
type Contact struct {
	TeamName     string `json:"teamName"`
	TeamEmail    string `json:"teamEmail"`
	ContactName  string `json:"contactName"`
	ContactTelNo string `json:"contactTelNo"`
}

// LegacyRelease links to a release published outside the service.
type LegacyRelease struct {
	ID            string `json:"id"`
	PublicationID string `json:"publicationId"`
	Description   string `json:"description"`
	URL           string `json:"url"`
	Order         int    `json:"order"`
}

// Comment is a content comment.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created"`
}

// AncillaryFile holds the editable details of a release's ancillary file.
type AncillaryFile struct {
	ID        string `json:"id"`
	ReleaseID string `json:"releaseId"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
}

// DataFile is an uploaded data and metadata pair.
type DataFile struct {
	ID           string    `json:"id"`
	ReleaseID    string    `json:"releaseId"`
	Filename     string    `json:"fileName"`
	MetaFilename string    `json:"metaFileName"`
	Size         int64     `json:"size"`
	UploadType   string    `json:"uploadType"`
	CreatedAt    time.Time `json:"created"`
}

// Store keeps everything in memory. It is safe for concurrent use.
type Store struct {
	mu sync.Mutex

	themes                map[string]Theme
	methodologies         map[string]Methodology
	users                 map[string]struct{}
	invites               map[string]Invite
	contacts              map[string]Contact
	externalMethodologies map[string]ExternalMethodology
	legacyReleases        map[string][]LegacyRelease
	comments              []Comment
	ancillaryFiles        map[string]AncillaryFile
	dataFiles             map[string][]DataFile

	now func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithUsers registers existing user accounts.
func WithUsers(emails ...string) StoreOption {
	return func(s *Store) {
		for _, email := range emails {
			s.users[normalizeEmail(email)] = struct{}{}
		}
	}
}

// WithClock overrides time.Now for created timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		themes:                make(map[string]Theme),
		methodologies:         make(map[string]Methodology),
		users:                 make(map[string]struct{}),
		invites:               make(map[string]Invite),
		contacts:              make(map[string]Contact),
		externalMethodologies: make(map[string]ExternalMethodology),
		legacyReleases:        make(map[string][]LegacyRelease),
		ancillaryFiles:        make(map[string]AncillaryFile),
		dataFiles:             make(map[string][]DataFile),
		now:                   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateTheme stores a theme. ok is false when the slug is taken.
func (s *Store) CreateTheme(title, summary string) (Theme, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slug := slugify(title)
	if _, exists := s.themes[slug]; exists {
		return Theme{}, false
	}
	theme := Theme{ID: uuid.NewString(), Slug: slug, Title: title, Summary: summary, CreatedAt: s.now()}
	s.themes[slug] = theme
	return theme, true
}

// CreateMethodology stores a methodology. ok is false when the slug is taken.
func (s *Store) CreateMethodology(title string) (Methodology, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slug := slugify(title)
	if _, exists := s.methodologies[slug]; exists {
		return Methodology{}, false
	}
	m := Methodology{ID: uuid.NewString(), Slug: slug, Title: title, CreatedAt: s.now()}
	s.methodologies[slug] = m
	return m, true
}

// SetExternalMethodology replaces a publication's external methodology.
func (s *Store) SetExternalMethodology(publicationID string, link ExternalMethodology) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.externalMethodologies[publicationID] = link
}

// ExternalMethodology returns a publication's external methodology.
func (s *Store) ExternalMethodology(publicationID string) (ExternalMethodology, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.externalMethodologies[publicationID]
	return link, ok
}

// CreateInvite stores an invite. ok is false when the email belongs to a
// user or an outstanding invite.
func (s *Store) CreateInvite(invite Invite) (Invite, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeEmail(invite.Email)
	if _, exists := s.users[key]; exists {
		return Invite{}, false
	}
	if _, exists := s.invites[key]; exists {
		return Invite{}, false
	}
	invite.ID = uuid.NewString()
	invite.CreatedAt = s.now()
	s.invites[key] = invite
	return invite, true
}

// SetContact replaces a publication's contact.
func (s *Store) SetContact(publicationID string, contact Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[publicationID] = contact
}

// Contact returns a publication's contact.
func (s *Store) Contact(publicationID string) (Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contact, ok := s.contacts[publicationID]
	return contact, ok
}

// AddLegacyRelease appends a legacy release. A zero order places it last.
func (s *Store) AddLegacyRelease(release LegacyRelease) LegacyRelease {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.legacyReleases[release.PublicationID]
	release.ID = uuid.NewString()
	if release.Order <= 0 {
		release.Order = len(existing) + 1
	}
	s.legacyReleases[release.PublicationID] = append(existing, release)
	return release
}

// LegacyReleases returns a publication's legacy releases.
func (s *Store) LegacyReleases(publicationID string) []LegacyRelease {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LegacyRelease(nil), s.legacyReleases[publicationID]...)
}

// AddComment stores a comment.
func (s *Store) AddComment(content string) Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment := Comment{ID: uuid.NewString(), Content: content, CreatedAt: s.now()}
	s.comments = append(s.comments, comment)
	return comment
}

// Comments returns every stored comment.
func (s *Store) Comments() []Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Comment(nil), s.comments...)
}

// SetAncillaryFile creates or replaces an ancillary file's details.
func (s *Store) SetAncillaryFile(file AncillaryFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ancillaryFiles[file.ReleaseID+"/"+file.ID] = file
}

// AncillaryFile returns an ancillary file's details.
func (s *Store) AncillaryFile(releaseID, fileID string) (AncillaryFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, ok := s.ancillaryFiles[releaseID+"/"+fileID]
	return file, ok
}

// HasDataFile reports whether a release already has a data file with the
// given name.
func (s *Store) HasDataFile(releaseID, filename string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, file := range s.dataFiles[releaseID] {
		if strings.EqualFold(file.Filename, filename) {
			return true
		}
	}
	return false
}

// AddDataFile stores an upload. ok is false when the data file name is taken.
func (s *Store) AddDataFile(file DataFile) (DataFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.dataFiles[file.ReleaseID] {
		if strings.EqualFold(existing.Filename, file.Filename) {
			return DataFile{}, false
		}
	}
	file.ID = uuid.NewString()
	file.CreatedAt = s.now()
	s.dataFiles[file.ReleaseID] = append(s.dataFiles[file.ReleaseID], file)
	return file, true
}

// DataFiles returns a release's uploads.
func (s *Store) DataFiles(releaseID string) []DataFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]DataFile(nil), s.dataFiles[releaseID]...)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
