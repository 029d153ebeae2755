package domain

import (
	"fmt"
	"net/url"
)

// Source describes one upstream origin of feed items
type Source struct {
	ID          string     `json:"id" koanf:"id"`
	Name        string     `json:"name" koanf:"name"`
	Type        SourceType `json:"type" koanf:"type"`
	URL         string     `json:"url,omitempty" koanf:"url"`
	Username    string     `json:"username,omitempty" koanf:"username"`
	Endpoint    string     `json:"endpoint,omitempty" koanf:"endpoint"`
	Homepage    string     `json:"homepage" koanf:"homepage"`
	Reliability string     `json:"reliability" koanf:"reliability"`
}

// Favicon returns the conventional favicon location of the source homepage
func (s Source) Favicon() string {
	u, err := url.Parse(s.Homepage)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s/favicon.ico", u.Scheme, u.Hostname())
}
