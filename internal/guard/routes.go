package guard

import "strings"

type route struct {
	segments []string
	wildcard bool
	policy   Policy
}

// Routes maps view paths to policies. Patterns may use ":param" segments and
// a trailing "/*".
type Routes struct {
	routes []route
}

func NewRoutes() *Routes {
	return &Routes{}
}

// Handle registers pattern under policy. Earlier registrations win.
func (r *Routes) Handle(pattern string, policy Policy) *Routes {
	rt := route{policy: policy}
	if strings.HasSuffix(pattern, "/*") {
		rt.wildcard = true
		pattern = strings.TrimSuffix(pattern, "/*")
	}
	rt.segments = split(pattern)
	r.routes = append(r.routes, rt)
	return r
}

// Policy returns the policy of the first route matching path. Unknown paths
// are public.
func (r *Routes) Policy(path string) Policy {
	segs := split(path)
	for _, rt := range r.routes {
		if rt.match(segs) {
			return rt.policy
		}
	}
	return PolicyPublic
}

func (rt route) match(segs []string) bool {
	if rt.wildcard {
		if len(segs) < len(rt.segments) {
			return false
		}
	} else if len(segs) != len(rt.segments) {
		return false
	}
	for i, want := range rt.segments {
		if strings.HasPrefix(want, ":") {
			if segs[i] == "" {
				return false
			}
			continue
		}
		if segs[i] != want {
			return false
		}
	}
	return true
}

func split(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// DefaultRoutes is the storefront's view table.
func DefaultRoutes() *Routes {
	return NewRoutes().
		Handle("/checkout", PolicyAuthenticated).
		Handle("/profile", PolicyAuthenticated).
		Handle("/order-success", PolicyAuthenticated).
		Handle("/orders/:id", PolicyAuthenticated).
		Handle("/book-appointment", PolicyAuthenticated).
		Handle("/admin/*", PolicyAdmin)
}
