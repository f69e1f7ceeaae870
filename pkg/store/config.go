package store

// Config locates the store on disk.
type Config interface {
	BasePath() string
}

// Dir is a Config for a fixed directory.
type Dir string

// BasePath implements Config.
func (d Dir) BasePath() string {
	return string(d)
}
