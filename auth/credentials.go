package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// Credential variable names, shared by the environment and the .env file.
const (
	XAPIKey             = "X_API_KEY"
	XAPISecret          = "X_API_SECRET"
	XAccessToken        = "X_ACCESS_TOKEN"
	XAccessSecret       = "X_ACCESS_SECRET"
	XClientID           = "X_CLIENT_ID"
	XClientSecret       = "X_CLIENT_SECRET"
	XOAuth2AccessToken  = "X_OAUTH2_ACCESS_TOKEN"
	XOAuth2RefreshToken = "X_OAUTH2_REFRESH_TOKEN"

	LinkedInAccessToken  = "LINKEDIN_ACCESS_TOKEN"
	LinkedInPersonID     = "LINKEDIN_PERSON_ID"
	LinkedInClientID     = "LINKEDIN_CLIENT_ID"
	LinkedInClientSecret = "LINKEDIN_CLIENT_SECRET"
	LinkedInRefreshToken = "LINKEDIN_REFRESH_TOKEN"
)

// Source is one named set of key-value credentials, such as the process
// environment or a .env file.
type Source struct {
	Name   string
	Values map[string]string
}

// Lookup returns the trimmed value for key and whether it is non-empty.
func (s Source) Lookup(key string) (string, bool) {
	v := strings.TrimSpace(s.Values[key])
	return v, v != ""
}

// MapSource wraps an in-memory map.
func MapSource(name string, values map[string]string) Source {
	return Source{Name: name, Values: values}
}

// EnvSource builds a source from KEY=VALUE pairs as returned by os.Environ.
func EnvSource(environ []string) Source {
	values := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		values[k] = v
	}
	return Source{Name: "environment", Values: values}
}

// FileSource reads a .env file. A missing file yields an empty source so that
// later sources can still satisfy a requirement.
func FileSource(path string) (Source, error) {
	src := Source{Name: path, Values: map[string]string{}}
	if path == "" {
		return src, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return src, nil
		}
		return src, fmt.Errorf("reading credentials file %s: %w", path, err)
	}
	src.Values = values
	return src, nil
}

// AliasSource exposes src under canonical key names. aliases maps a canonical
// name to the name used by src, e.g. X_API_KEY -> TWITTER_CONSUMER_KEY.
func AliasSource(name string, src Source, aliases map[string]string) Source {
	values := make(map[string]string, len(aliases))
	for canonical, alias := range aliases {
		if v, ok := src.Values[alias]; ok {
			values[canonical] = v
		}
	}
	return Source{Name: name, Values: values}
}

// TwitterAliases maps the X_* names onto the older TWITTER_* convention.
// TWITTER_BEARER_TOKEN is not mapped; it holds an app-only token, which
// cannot create posts.
var TwitterAliases = map[string]string{
	XAPIKey:       "TWITTER_API_KEY",
	XAPISecret:    "TWITTER_API_SECRET",
	XAccessToken:  "TWITTER_ACCESS_TOKEN",
	XAccessSecret: "TWITTER_ACCESS_TOKEN_SECRET",
	XClientID:     "TWITTER_CLIENT_ID",
	XClientSecret: "TWITTER_CLIENT_SECRET",
}

// Credentials is a resolved, complete set of values.
type Credentials struct {
	Source string
	Values map[string]string
}

func (c Credentials) Get(key string) string {
	return c.Values[key]
}

// Requirement names the keys an operation needs and how to obtain them.
type Requirement struct {
	Name     string
	Keys     []string
	Optional []string
	Hint     string
}

var (
	XOAuth1 = Requirement{
		Name: "X OAuth 1.0a",
		Keys: []string{XAPIKey, XAPISecret, XAccessToken, XAccessSecret},
		Hint: "run: contentnuke oauth1",
	}
	XConsumer = Requirement{
		Name: "X consumer keys",
		Keys: []string{XAPIKey, XAPISecret},
		Hint: "copy the API Key and Secret from the X developer portal (Keys and tokens)",
	}
	XOAuth2 = Requirement{
		Name: "X OAuth 2.0",
		Keys: []string{XOAuth2AccessToken},
		Hint: "run: contentnuke oauth2",
	}
	XOAuth2Client = Requirement{
		Name: "X OAuth 2.0 client",
		Keys: []string{XClientID, XClientSecret},
		Hint: "copy the OAuth 2.0 Client ID and Secret from the X developer portal",
	}
	XOAuth2Refresh = Requirement{
		Name:     "X OAuth 2.0 refresh",
		Keys:     []string{XClientID, XOAuth2RefreshToken},
		Optional: []string{XClientSecret},
		Hint:     "run: contentnuke oauth2",
	}
	LinkedInPost = Requirement{
		Name:     "LinkedIn",
		Keys:     []string{LinkedInAccessToken},
		Optional: []string{LinkedInPersonID},
		Hint:     "add LINKEDIN_ACCESS_TOKEN to the env file",
	}
	LinkedInRefresh = Requirement{
		Name: "LinkedIn refresh",
		Keys: []string{LinkedInClientID, LinkedInClientSecret, LinkedInRefreshToken},
		Hint: "LinkedIn tokens may need manual renewal every 60 days",
	}
)

// Resolve returns the values of the first source, in priority order, that
// holds every required key. Optional keys come from that source when present,
// otherwise from the first other source that has them.
func (r Requirement) Resolve(sources ...Source) (Credentials, error) {
	best := -1
	var bestMissing []string
	for i, src := range sources {
		missing := missingKeys(src, r.Keys)
		if len(missing) == 0 {
			return r.collect(i, sources), nil
		}
		if best < 0 || len(missing) < len(bestMissing) {
			best, bestMissing = i, missing
		}
	}
	if best < 0 {
		bestMissing = append([]string(nil), r.Keys...)
	}

	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, src.Name)
	}
	return Credentials{}, &ConfigurationError{
		Requirement: r.Name,
		Missing:     bestMissing,
		Sources:     names,
		Hint:        r.Hint,
	}
}

func (r Requirement) collect(winner int, sources []Source) Credentials {
	creds := Credentials{Source: sources[winner].Name, Values: map[string]string{}}
	for _, key := range r.Keys {
		creds.Values[key], _ = sources[winner].Lookup(key)
	}
	for _, key := range r.Optional {
		if v, ok := sources[winner].Lookup(key); ok {
			creds.Values[key] = v
			continue
		}
		for _, src := range sources {
			if v, ok := src.Lookup(key); ok {
				creds.Values[key] = v
				break
			}
		}
	}
	return creds
}

func missingKeys(src Source, keys []string) []string {
	var missing []string
	for _, key := range keys {
		if _, ok := src.Lookup(key); !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// ConfigurationError reports credentials that no source could provide.
type ConfigurationError struct {
	Requirement string
	Missing     []string
	Sources     []string
	Hint        string
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("missing %s credentials: %s", e.Requirement, strings.Join(e.Missing, ", "))
	if len(e.Sources) > 0 {
		msg += fmt.Sprintf(" (checked %s)", strings.Join(e.Sources, ", "))
	}
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}
