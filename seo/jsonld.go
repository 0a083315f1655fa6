package seo

import (
	"encoding/json"
	"strings"

	"folio/catalog"
)

// WebsiteJSONLD produces a Schema.org WebSite block.
func WebsiteJSONLD(name, base, description, author string) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
		"url":      BuildURL(base),
	}
	if description != "" {
		data["description"] = description
	}
	if author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	return marshalJSONLD(data)
}

// PersonJSONLD produces a Schema.org Person block. Empty profile URLs are
// dropped from sameAs.
func PersonJSONLD(author, base string, profiles ...string) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "Person",
		"name":     author,
		"url":      BuildURL(base),
	}
	var sameAs []string
	for _, p := range profiles {
		if s := strings.TrimSpace(p); s != "" {
			sameAs = append(sameAs, s)
		}
	}
	if len(sameAs) > 0 {
		data["sameAs"] = sameAs
	}
	return marshalJSONLD(data)
}

// ProjectJSONLD produces a Schema.org CreativeWork block for a project.
func ProjectJSONLD(base, author string, p catalog.Project) string {
	projectURL := BuildURL(base, "projects", p.Slug)
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "CreativeWork",
		"name":        p.Title,
		"description": p.Summary,
		"url":         projectURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   projectURL,
		},
	}
	if author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	if len(p.Tags) > 0 {
		data["keywords"] = strings.Join(p.Tags, ", ")
	}
	return marshalJSONLD(data)
}

func marshalJSONLD(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
