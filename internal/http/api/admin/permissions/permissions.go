package permissions

import (
	"strings"
)

// Definition describes one guarded admin route.
type Definition struct {
	Key        string // Stable permission key, "METHOD path".
	Method     string // HTTP method.
	Path       string // Gin route path.
	Label      string // Human-readable label for the console.
	Module     string // Console module grouping.
	SuperAdmin bool   // Restricted to super_admin when true.
}

// definitions lists every admin route and its access level. Routes absent
// from this list are denied outright, so a new route must be registered here
// before it can serve.
var definitions = []Definition{
	{Method: "GET", Path: "/v0/admin/content", Label: "List content entries", Module: "content"},
	{Method: "GET", Path: "/v0/admin/content/:key", Label: "View content entry", Module: "content"},
	{Method: "PUT", Path: "/v0/admin/content/:key", Label: "Edit content entry", Module: "content"},

	{Method: "GET", Path: "/v0/admin/pages", Label: "List pages", Module: "pages"},
	{Method: "POST", Path: "/v0/admin/pages", Label: "Create page", Module: "pages"},
	{Method: "GET", Path: "/v0/admin/pages/:id", Label: "View page", Module: "pages"},
	{Method: "PUT", Path: "/v0/admin/pages/:id", Label: "Edit page", Module: "pages"},
	{Method: "POST", Path: "/v0/admin/pages/:id/publish", Label: "Publish page", Module: "pages"},
	{Method: "POST", Path: "/v0/admin/pages/:id/sections", Label: "Add section", Module: "pages"},
	{Method: "PUT", Path: "/v0/admin/sections/:id", Label: "Edit section", Module: "pages"},
	{Method: "POST", Path: "/v0/admin/sections/:id/active", Label: "Toggle section", Module: "pages"},

	{Method: "GET", Path: "/v0/admin/members", Label: "List members", Module: "members"},
	{Method: "GET", Path: "/v0/admin/members/:id", Label: "View member", Module: "members"},
	{Method: "POST", Path: "/v0/admin/members/:id/approve", Label: "Approve member", Module: "members"},
	{Method: "POST", Path: "/v0/admin/members/:id/reject", Label: "Reject member", Module: "members"},
	{Method: "PUT", Path: "/v0/admin/members/:id/role", Label: "Change member role", Module: "members", SuperAdmin: true},

	{Method: "GET", Path: "/v0/admin/settings", Label: "List settings", Module: "settings"},
	{Method: "PUT", Path: "/v0/admin/settings/:key", Label: "Edit setting", Module: "settings", SuperAdmin: true},

	{Method: "GET", Path: "/v0/admin/audit", Label: "View audit log", Module: "system"},
	{Method: "GET", Path: "/v0/admin/permissions", Label: "List permissions", Module: "system"},
	{Method: "GET", Path: "/v0/admin/version", Label: "View version", Module: "system"},
}

// Key builds the permission key for a method and route path.
func Key(method, path string) string {
	return strings.ToUpper(strings.TrimSpace(method)) + " " + strings.TrimSpace(path)
}

// Definitions returns all route definitions with keys populated.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	for i, def := range definitions {
		def.Key = Key(def.Method, def.Path)
		out[i] = def
	}
	return out
}

// DefinitionMap returns definitions indexed by key.
func DefinitionMap() map[string]Definition {
	defs := Definitions()
	out := make(map[string]Definition, len(defs))
	for _, def := range defs {
		out[def.Key] = def
	}
	return out
}
