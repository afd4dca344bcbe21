package constants

// Redis key formats.
const (
	// Driver Directory
	KeyDriverGeo      = "drivers:geo"        // GEO set of online driver locations
	KeyOnlineDrivers  = "drivers:online"     // set of online driver ids
	KeyDriverPresence = "driver:presence:%s" // hash: driver:presence:{driver_id}

	// Matching & Dispatch
	KeyRideCandidates = "ride:candidates:%s" // set: ride:candidates:{ride_id}
)

// Redis hash fields used by the presence hash.
const (
	FieldLatitude  = "lat"
	FieldLongitude = "lng"
	FieldGeohash   = "geohash"
	FieldTimestamp = "ts"
)
