package settings

// Settings is the singleton record of sync toggles. When no record has
// been stored yet, Defaults apply: both flags enabled.
type Settings struct {
	AutoSync      bool
	IncludeRRSync bool
}

func Defaults() Settings {
	return Settings{
		AutoSync:      true,
		IncludeRRSync: true,
	}
}
