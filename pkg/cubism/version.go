package cubism

// Version is populated at build time via ldflags:
//
//	go build -ldflags "-X github.com/cubism-go/cubism-core-go/pkg/cubism.Version=v1.2.3"
var Version = "v0.0.0-in-progress"

// WrapperVersion returns the semantic version of this module. In development it
// defaults to v0.0.0-in-progress.
func WrapperVersion() string {
	return Version
}
