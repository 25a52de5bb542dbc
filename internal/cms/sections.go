package cms

import (
	log "github.com/sirupsen/logrus"
)

// Section type tags form a closed set. Rendering dispatches on the tag; an
// unrecognized tag is skipped with a warning so a future type never breaks an
// entire page.
const (
	SectionHero         = "hero"
	SectionAbout        = "about"
	SectionBenefits     = "benefits"
	SectionCTA          = "cta"
	SectionTestimonials = "testimonials"
	SectionSlider       = "slider"
	SectionLeadership   = "leadership"
	SectionSponsors     = "sponsors"
)

// KnownSectionType reports whether the tag belongs to the closed set. The
// switch keeps the set explicit; the default arm is the graceful-degradation
// path.
func KnownSectionType(tag string) bool {
	switch tag {
	case SectionHero, SectionAbout, SectionBenefits, SectionCTA,
		SectionTestimonials, SectionSlider, SectionLeadership, SectionSponsors:
		return true
	default:
		return false
	}
}

// filterRenderable drops sections whose type tag is unknown, logging each
// skip. Order is preserved.
func filterRenderable(slug string, sections []ResolvedSection) []ResolvedSection {
	out := make([]ResolvedSection, 0, len(sections))
	for _, section := range sections {
		if !KnownSectionType(section.Type) {
			log.WithFields(log.Fields{
				"slug":         slug,
				"section_id":   section.ID,
				"section_type": section.Type,
			}).Warn("skipping unknown section type")
			continue
		}
		out = append(out, section)
	}
	return out
}
