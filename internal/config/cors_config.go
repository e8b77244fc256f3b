package config

import "strings"

type Cors struct{}

var _ CorsConfig = Cors{}

// GetAllowedOrigins returns the origins the dev API accepts, from a
// comma-separated CORS_ORIGINS value.
func (Cors) GetAllowedOrigins() []string {
	raw := GetEnv("CORS_ORIGINS", "*")
	origins := strings.Split(raw, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}

func (Cors) GetAllowedMethods() []string {
	return []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
}

func (Cors) GetAllowedHeaders() []string {
	return []string{"Accept", "Content-Type"}
}
