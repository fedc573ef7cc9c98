package ports

// Clock es la fuente de tiempo inyectada del engine. Now devuelve unix
// seconds, monótono no-decreciente; dos llamadas consecutivas pueden
// devolver el mismo instante.
type Clock interface {
	Now() int64
}
