package structures

import "net/http"

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
	DemoMode   bool
}

type Route struct {
	Url     string
	Handler http.Handler
}
