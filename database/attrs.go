package database

type AdminAttrs struct {
	Username string
	Email    string
	Password string
	Role     string
	IsActive bool
}

// ImageAttrs is the asset reference handed back by the file store. The
// content layer records it verbatim and never touches the file itself.
type ImageAttrs struct {
	StorageName  string
	OriginalName string
	Path         string
	Size         int64
	MimeType     string
}

type PostAttrs struct {
	AuthorID uint64
	Title    string
	Body     []string
	Excerpt  string
	Tags     []string
	Status   string
	Images   []ImageAttrs
}

// PostPatch describes a partial update. A nil pointer means the field was
// absent from the request; a non-nil pointer to a zero value is an explicit
// instruction. Images are append-only and therefore not a pointer: an empty
// slice simply adds nothing.
type PostPatch struct {
	Title   *string
	Body    *[]string
	Excerpt *string
	Tags    *[]string
	Status  *string
	Images  []ImageAttrs
}
