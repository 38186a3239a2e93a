package remote

// ChannelResource is the editable channel as exchanged with an integration.
type ChannelResource struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// CatalogEntry is one category in the catalog listing.
type CatalogEntry struct {
	Name             string `json:"name"`
	ImageURLTemplate string `json:"imageUrlTemplate"`
}

// CatalogPage is one page of the catalog listing. An empty NextCursor marks the last page.
type CatalogPage struct {
	Items      []CatalogEntry `json:"items"`
	NextCursor string         `json:"nextCursor,omitempty"`
}
