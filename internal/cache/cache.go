// Package cache provee una abstracción mínima de cache con soporte
// multi-backend:
//
//   - Memory (in-process, desarrollo/testing)
//   - Redis (distribuido, producción)
//
// Se usa para el rate limiting del login y para el latch de deduplicación
// del callback OAuth.
package cache

import "time"

// Cache operaciones byte-oriented. Los valores son opacos.
type Cache interface {
	// Get retorna el valor y true si la key existe y no expiró.
	Get(key string) ([]byte, bool)

	// Set guarda un valor con TTL. Si ttl es 0 usa el default del backend.
	Set(key string, value []byte, ttl time.Duration)

	// Delete elimina una key. No-op si no existe.
	Delete(key string)

	// Add guarda el valor solo si la key NO existe todavía.
	// Retorna true si escribió (equivale a "somos los primeros").
	Add(key string, value []byte, ttl time.Duration) bool
}
