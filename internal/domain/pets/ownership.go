package pets

import "context"

// OwnerOf expone el ownerUserID de una mascota.
// Lo usa el módulo de vacunas para autorizar sin importar pets.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerUserID, nil
}
