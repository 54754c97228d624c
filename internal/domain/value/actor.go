package value

// Actor идентифицирует аутентифицированного вызывающего в рамках одной
// операции. Шлюз аутентификации перед сервисом разбирает сессию и передаёт
// эти поля дальше.
type Actor struct {
	ID        int64
	TenantID  int64
	Tier      Tier
	FirstName string
	LastName  string
}
