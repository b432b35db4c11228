package config

import (
	"slices"
	"strings"
)

type Cors struct {
	Origins []string `mapstructure:"allowed_origins"`
	Methods []string `mapstructure:"allowed_methods"`
	Headers []string `mapstructure:"allowed_headers"`
}

var _ CorsConfig = Cors{}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	if _, ok := a["*"]; ok {
		return true
	}
	_, ok := a[origin]
	return ok
}

// List returns the origins sorted
func (a AllowedOrigins) List() []string {
	origins := make([]string, 0, len(a))
	for k := range a {
		origins = append(origins, k)
	}
	slices.Sort(origins)
	return origins
}

func (a AllowedOrigins) String() string {
	return strings.Join(a.List(), ", ")
}

func (c Cors) GetAllowedOrigins() AllowedOrigins {
	origins := AllowedOrigins{}
	for _, o := range splitList(c.Origins) {
		origins[o] = nullValue{}
	}
	return origins
}

func (c Cors) GetAllowedMethods() string {
	return strings.Join(splitList(c.Methods), ", ")
}

func (c Cors) GetAllowedHeaders() string {
	return strings.Join(splitList(c.Headers), ", ")
}

// splitList accepts both YAML lists and comma separated environment values
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
