package adminforms

// Form ids. Mapping files key their entries by these.
const (
	ThemeFormID               = "themeForm"
	MethodologySummaryFormID  = "methodologySummaryForm"
	ExternalMethodologyFormID = "externalMethodologyForm"
	InviteUserFormID          = "inviteUserForm"
	PublicationContactFormID  = "publicationContactForm"
	LegacyReleaseFormID       = "legacyReleaseForm"
	CommentAddFormID          = "commentAddForm"
	AncillaryFileFormID       = "ancillaryFileForm"
	DataFileUploadFormID      = "dataFileUploadForm"
)
