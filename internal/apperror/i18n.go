package apperror

// Translation keys shared with the web client. Grouped by namespace the
// same way the client's locale files are.
const (
	KeyMissingFields  = "server.global.errors.missing_fields"
	KeyUnauthorized   = "server.global.errors.unauthorized"
	KeyNoSuchDate     = "server.global.errors.no_such_date"
	KeyDateDeleted    = "server.dates.messages.date_deleted"
	KeyImagesUploaded = "server.dates.messages.images_uploaded"
	KeyImageDeleted   = "server.dates.messages.image_deleted"
	KeyNoSuchImage    = "server.dates.errors.no_such_image"
	KeyTooManyImages  = "server.dates.errors.too_many_images"

	KeyCategoryExists      = "server.categories.errors.already_exists"
	KeyCategoryNotFound    = "server.categories.errors.not_found"
	KeyCannotDeleteDefault = "server.categories.errors.cannot_delete_default"
	KeyCategoryDeleted     = "server.categories.messages.deleted"
	KeyInvalidFileType     = "server.upload.errors.invalid_file_type"
	KeyFileTooLarge        = "server.upload.errors.file_too_large"
	KeyUploadFailed        = "server.upload.errors.upload_failed"
)
