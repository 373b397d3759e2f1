package ecs

// Query1 returns a stable-ordered snapshot of entities carrying component A.
func Query1[A any](r *Registry) []EntityID {
	return r.entitiesWith(typeOf[A]())
}

// Query2 returns a stable-ordered snapshot of entities carrying both A and B.
// Component access per yielded entity still goes through GetShared/
// GetExclusive against the same per-slot lock; Query only snapshots
// membership.
func Query2[A, B any](r *Registry) []EntityID {
	return r.entitiesWith(typeOf[A](), typeOf[B]())
}

// Query3 returns a stable-ordered snapshot of entities carrying A, B and C.
func Query3[A, B, C any](r *Registry) []EntityID {
	return r.entitiesWith(typeOf[A](), typeOf[B](), typeOf[C]())
}
