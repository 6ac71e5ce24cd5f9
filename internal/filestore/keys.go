package filestore

import (
	"fmt"
	"path"
	"strings"

	"fuatilia.org/internal/auth"
)

// FileType selects the object key layout for an upload or listing.
type FileType string

const (
	TypeAll        FileType = "ALL"
	TypeImage      FileType = "IMAGE"
	TypeCase       FileType = "CASE"
	TypeManifesto  FileType = "MANIFESTO"
	TypeBill       FileType = "BILL"
	TypeProceeding FileType = "PROCEEDING"
	TypeVote       FileType = "VOTE"
)

// ParseFileType validates a file type string.
func ParseFileType(s string) (FileType, error) {
	switch FileType(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeAll:
		return TypeAll, nil
	case TypeImage:
		return TypeImage, nil
	case TypeCase:
		return TypeCase, nil
	case TypeManifesto:
		return TypeManifesto, nil
	case TypeBill:
		return TypeBill, nil
	case TypeProceeding:
		return TypeProceeding, nil
	case TypeVote:
		return TypeVote, nil
	}
	return "", fmt.Errorf("%w: unknown file type %q", auth.ErrInvalidInput, s)
}

// KeyParams carries the inputs to key construction. Which fields are
// required depends on the file type.
type KeyParams struct {
	Folder   string
	FileName string
	ID       string
	House    string
}

// ComputeKey builds the object key for the given file type.
//
// Entity-scoped types (IMAGE, CASE, MANIFESTO) nest under the entity id; a
// blank file name yields the type's directory prefix for listing.
// House-scoped types (BILL, PROCEEDING, VOTE) nest under the chamber. ALL
// yields the entity's whole key prefix.
func ComputeKey(ft FileType, p KeyParams) (string, error) {
	folder := strings.Trim(strings.TrimSpace(p.Folder), "/")
	name := strings.TrimSpace(p.FileName)
	id := strings.TrimSpace(p.ID)
	house := strings.TrimSpace(p.House)
	if folder == "" {
		return "", fmt.Errorf("%w: folder is required", auth.ErrInvalidInput)
	}

	switch ft {
	case TypeAll:
		if id == "" {
			return "", fmt.Errorf("%w: id is required for listing", auth.ErrInvalidInput)
		}
		return path.Join(folder, id) + "/", nil
	case TypeImage, TypeCase, TypeManifesto:
		if id == "" {
			return "", fmt.Errorf("%w: id is required", auth.ErrInvalidInput)
		}
		sub := map[FileType]string{
			TypeImage:     "images",
			TypeCase:      "cases",
			TypeManifesto: "manifestos",
		}[ft]
		if name == "" {
			return path.Join(folder, id, sub) + "/", nil
		}
		return path.Join(folder, id, sub, name), nil
	case TypeBill, TypeProceeding, TypeVote:
		if house == "" || name == "" {
			return "", fmt.Errorf("%w: house and file name are required", auth.ErrInvalidInput)
		}
		sub := map[FileType]string{
			TypeBill:       "bills",
			TypeProceeding: "proceedings",
			TypeVote:       "votes",
		}[ft]
		return path.Join(folder, sub, house, name), nil
	}
	return "", fmt.Errorf("%w: unknown file type %q", auth.ErrInvalidInput, ft)
}
