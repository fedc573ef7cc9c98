package domain

// ProgramState es el registro global del engine: identidades fijadas en
// la inicialización y contadores acumulativos. Authority, Oracle,
// Treasury y FeePercent son inmutables tras New; los contadores solo
// crecen.
type ProgramState struct {
	Authority  Account
	Oracle     Account // puede coincidir con Authority
	Treasury   Account
	FeePercent uint8 // 0–100, comisión sobre el pool perdedor

	RoundsCreated uint64
	TotalVolume   uint64 // suma de todas las apuestas admitidas
}

// CanResolve devuelve true si la cuenta está autorizada a resolver o
// cancelar rondas. La autoridad y el oráculo son roles distintos pero
// ambos válidos como resolutores.
func (s ProgramState) CanResolve(caller Account) bool {
	return caller == s.Authority || caller == s.Oracle
}

// CanAdminister devuelve true si la cuenta puede crear y abrir rondas.
func (s ProgramState) CanAdminister(caller Account) bool {
	return caller == s.Authority
}
