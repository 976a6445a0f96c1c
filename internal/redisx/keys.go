package redisx

import "time"

const (
	// Session token -> identity JSON: session:{token}
	KeySession = "session:%s"

	// Cached Steam appdetails payload: steam:app:{app_id}
	KeySteamDetails = "steam:app:%d"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Remaining unassigned keys per product: stock:keys:{product_id}
	KeyStockCount = "stock:keys:%s"
)

var (
	TTLSession    = 24 * time.Hour
	TTLSteamCache = 12 * time.Hour
	TTLDedup      = 48 * time.Hour
	TTLStockCount = 10 * time.Minute
)
