package inventoryapi

// Paths relative to the inventory service base URL
const (
	EndpointPallets       = "/pallets"
	EndpointAssign        = "/pallets/assign"
	EndpointNextSequence  = "/releases/next-sequence"
	EndpointReleases      = "/releases"
	endpointReleaseFormat = "/releases/%d"
)

// Operation names used in metrics, logs and spans
const (
	OpFetchInventory = "fetch_inventory"
	OpMarkAssigned   = "mark_assigned"
	OpNextSequence   = "next_release_sequence"
	OpCreateRelease  = "create_release"
	OpListReleases   = "list_releases"
	OpGetRelease     = "get_release"
	OpUpdateRelease  = "update_release"
)
