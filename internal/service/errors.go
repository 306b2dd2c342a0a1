package service

import "github.com/fsrsite/internal/apperr"

var (
	ErrFSRNotFound    = apperr.NotFound("FSR not found", "FSR_NOT_FOUND")
	ErrFSRSlugTaken   = apperr.BadRequest("an FSR with this slug already exists", "FSR_SLUG_TAKEN")
	ErrFSRSlugInvalid = apperr.BadRequest("slug may only contain lowercase letters, digits and dashes", "FSR_SLUG_INVALID")
	ErrFSRNoChanges   = apperr.BadRequest("No data provided for update", "FSR_NO_CHANGES")
	ErrLogoInvalid    = apperr.BadRequest("Logo must be an image file.", "LOGO_INVALID")
	ErrLogoNotFound   = apperr.NotFound("FSR has no logo", "LOGO_NOT_FOUND")

	ErrUserNotFound    = apperr.NotFound("User not found", "USER_NOT_FOUND")
	ErrSearchTermEmpty = apperr.BadRequest("Search term is required", "SEARCH_TERM_REQUIRED")
	ErrUGentIDMissing  = apperr.BadRequest("UGent ID is required", "UGENT_ID_REQUIRED")

	ErrLanguageInvalid = apperr.BadRequest("Invalid language", "LANGUAGE_INVALID")
	ErrPageNotFound    = apperr.NotFound("Page not found", "PAGE_NOT_FOUND")
	ErrPagePathTaken   = apperr.BadRequest("page path is already in use", "PAGE_PATH_TAKEN")
	ErrPagePathInvalid = apperr.BadRequest("page path is invalid", "PAGE_PATH_INVALID")
	ErrContentMissing  = apperr.BadRequest("Content is required", "CONTENT_REQUIRED")
	ErrContentNotFound = apperr.NotFound("Content not found", "CONTENT_NOT_FOUND")
	ErrFormatInvalid   = apperr.BadRequest("format must be html or markdown", "FORMAT_INVALID")

	ErrMediaNotFound    = apperr.NotFound("Media not found", "MEDIA_NOT_FOUND")
	ErrMediaNameMissing = apperr.BadRequest("file name is required", "MEDIA_NAME_REQUIRED")
)
