package env

type UploadsEnvironment struct {
	Dir         string `validate:"required"`
	PublicPath  string `validate:"required,startswith=/"`
	MaxFileSize int64  `validate:"required,gt=0"` // bytes
}
