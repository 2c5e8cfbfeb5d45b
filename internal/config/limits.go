package config

// Personal rating bounds, inclusive. A game may also be left unrated.
const (
	RatingMin = 0
	RatingMax = 10
)

// PageSize is the fixed page size of every list endpoint
const PageSize = 10

// MaxPage caps the requested page so the row offset stays far from integer overflow
const MaxPage = 1_000_000

// Field length limits enforced at write time
const (
	TitleMaxLength         = 200
	NotesMaxLength         = 5000
	ReferenceNameMaxLength = 100
	UsernameMinLength      = 3
	UsernameMaxLength      = 50
	PasswordMinLength      = 8
)

// TotalPages returns the number of pages needed to show total items
func TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int((total + PageSize - 1) / PageSize)
}

// ClampPage maps a requested page onto 1..MaxPage
func ClampPage(page int) int {
	switch {
	case page < 1:
		return 1
	case page > MaxPage:
		return MaxPage
	default:
		return page
	}
}

// Offset converts a 1-based page number to a row offset, clamping it first
func Offset(page int) int {
	return (ClampPage(page) - 1) * PageSize
}
