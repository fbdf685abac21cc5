package merchant

import (
	"fmt"
	"strings"
)

const (
	defaultScheme   = "https"
	defaultBasePath = "/api/v1"
	clientVersion   = "1.0.0"
)

// Service identifies one deployment of the digest-signed API and the user agent
// the client announces to it.
type Service struct {
	Name             string
	Scheme           string
	Host             string
	BasePath         string
	UserAgentName    string
	UserAgentVersion string
}

var (
	// Coinqvest is the COINQVEST Merchant API.
	Coinqvest = Service{
		Name:             "coinqvest",
		Scheme:           defaultScheme,
		Host:             "www.coinqvest.com",
		BasePath:         defaultBasePath,
		UserAgentName:    "go-merchant-sdk",
		UserAgentVersion: clientVersion,
	}

	// Whalestack is the Whalestack Payments API.
	Whalestack = Service{
		Name:             "whalestack",
		Scheme:           defaultScheme,
		Host:             "www.whalestack.com",
		BasePath:         defaultBasePath,
		UserAgentName:    "go-sdk",
		UserAgentVersion: clientVersion,
	}
)

// ServiceByName returns a built-in service profile.
func ServiceByName(name string) (Service, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Coinqvest.Name:
		return Coinqvest, nil
	case Whalestack.Name:
		return Whalestack, nil
	default:
		return Service{}, fmt.Errorf("unknown merchant service %q", name)
	}
}

// BaseURL returns scheme://host/basePath without a trailing slash.
func (s Service) BaseURL() string {
	return s.Scheme + "://" + s.Host + s.BasePath
}

// UserAgent renders "<name> <version> (<apiKey>)".
func (s Service) UserAgent(apiKey string) string {
	return s.UserAgentName + " " + s.UserAgentVersion + " (" + apiKey + ")"
}

func (s Service) normalize() Service {
	s.Name = strings.TrimSpace(s.Name)
	s.Scheme = strings.ToLower(strings.TrimSpace(s.Scheme))
	if s.Scheme == "" {
		s.Scheme = defaultScheme
	}
	s.Host = strings.TrimRight(strings.TrimSpace(s.Host), "/")
	s.BasePath = strings.TrimRight(strings.TrimSpace(s.BasePath), "/")
	if s.BasePath != "" && !strings.HasPrefix(s.BasePath, "/") {
		s.BasePath = "/" + s.BasePath
	}
	if s.Name == "" {
		s.Name = s.Host
	}
	return s
}
