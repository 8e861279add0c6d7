package abi

import "fmt"

// ServiceVersion is a semantic (major, minor, patch) triple.
type ServiceVersion struct {
	Major uint32
	Minor uint32
	Patch uint32
}

// String renders the version as "major.minor.patch".
func (v ServiceVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Satisfies reports whether v (the version a provider offers) satisfies min
// (the version a consumer requires). Major versions must match exactly; a
// higher minor is compatible with any lower minor/patch, and an equal minor
// is compatible with any patch at or above the requested one.
func (v ServiceVersion) Satisfies(min ServiceVersion) bool {
	if v.Major != min.Major {
		return false
	}
	if v.Minor != min.Minor {
		return v.Minor > min.Minor
	}
	return v.Patch >= min.Patch
}

// ServiceDescriptor identifies a registered service. Immutable after
// registration.
type ServiceDescriptor struct {
	ID         string
	Version    ServiceVersion
	ProviderID string
}

// ServiceInvoker is the dispatch side of a ServiceHandle: the set of
// operations a consumer may perform against a provider's published service.
// Because the host and every plugin share one Go process and type system,
// "crossing the ABI" here is an ordinary interface value rather than a
// pointer plus a raw function table — ListMethods/Invoke are the Go
// equivalent of the opaque dispatch table the data model describes.
type ServiceInvoker interface {
	Invoke(method string, args any) (any, error)
	ListMethods() []string
}

// ServiceHandle is an opaque reference to a service: the service's id plus
// a dispatch table. Handles are cheap to copy — copies share the
// underlying Invoker — so the provider must outlive every outstanding copy.
type ServiceHandle struct {
	ServiceID string
	Invoker   ServiceInvoker
}
