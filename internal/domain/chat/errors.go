package chat

import "errors"

var (
	// ErrEmptyMessage rejects a send with no content and no attachment.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrContentTooLong rejects content above MaxContentLength.
	ErrContentTooLong = errors.New("message content too long")
	// ErrNotFound signals a row that must exist could not be read back.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthor rejects edits and deletes by anyone but the author.
	ErrNotAuthor = errors.New("not the message author")
	// ErrNotOwner rejects group administration by non-owners.
	ErrNotOwner = errors.New("not the group owner")
)
