package httpwrap

import "golang.org/x/exp/rand"

// UserAgents identify the CLI to the platform APIs.
var UserAgents = []string{
	"contentnuke/1.0 (+https://github.com/masa-finance/masa-thread-poster)",
	"contentnuke/1.0 Go-http-client/1.1",
}

func GetRandomUserAgent() string {
	return UserAgents[rand.Intn(len(UserAgents))]
}
