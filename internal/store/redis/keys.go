package redis

const (
	// KeyPrefixGeo is the prefix for cached geo lookups
	KeyPrefixGeo = "swooby:geo:"
)

// GeoKey returns the Redis key for the geo data of an IP
func GeoKey(ip string) string {
	return KeyPrefixGeo + ip
}
