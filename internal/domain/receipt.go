package domain

// Receipt references an uploaded justificatif in the blob store. The path is
// the storage key used for removal; the public URL is what clients render.
type Receipt struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	PublicURL string `json:"public_url"`
}
