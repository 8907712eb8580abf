package dto

// ShortLocationDTO is the embedded location reference on list/detail reads.
type ShortLocationDTO struct {
	ID     uint64  `json:"id"`
	Campus string  `json:"campus"`
	Name   string  `json:"name"`
	NameAr *string `json:"name_ar,omitempty"`
}

// ShortUserDTO is the embedded user reference on list/detail reads.
type ShortUserDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// AffectedDTO reports how many rows a bulk operation touched.
type AffectedDTO struct {
	Affected int64 `json:"affected"`
}
