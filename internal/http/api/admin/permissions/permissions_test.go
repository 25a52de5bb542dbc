package permissions

import "testing"

func TestKeyFormat(t *testing.T) {
	if got := Key("put", " /v0/admin/content/:key "); got != "PUT /v0/admin/content/:key" {
		t.Fatalf("unexpected key: %q", got)
	}
}

func TestDefinitionsHaveUniqueKeys(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range Definitions() {
		if def.Key == "" {
			t.Fatalf("definition %s %s has empty key", def.Method, def.Path)
		}
		if seen[def.Key] {
			t.Fatalf("duplicate key %s", def.Key)
		}
		seen[def.Key] = true
		if def.Label == "" || def.Module == "" {
			t.Fatalf("definition %s missing label or module", def.Key)
		}
	}
}

func TestDefinitionMapLookup(t *testing.T) {
	m := DefinitionMap()

	def, ok := m[Key("PUT", "/v0/admin/members/:id/role")]
	if !ok {
		t.Fatalf("expected role route registered")
	}
	if !def.SuperAdmin {
		t.Fatalf("expected role change restricted to super_admin")
	}

	setting, ok := m[Key("PUT", "/v0/admin/settings/:key")]
	if !ok || !setting.SuperAdmin {
		t.Fatalf("expected setting write restricted to super_admin")
	}

	list, ok := m[Key("GET", "/v0/admin/members")]
	if !ok || list.SuperAdmin {
		t.Fatalf("expected member list open to admins")
	}

	if _, ok := m[Key("DELETE", "/v0/admin/members/:id")]; ok {
		t.Fatalf("unexpected delete route")
	}
}
