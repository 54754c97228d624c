package server

// Server объединяет специфичные HTTP сервера, отвечающие за обработку
// конкретных сущностей маркетплейса.
type Server struct {
	SellServer
	InterestServer
	SettlementServer
}

func NewServer(
	sellServer SellServer,
	interestServer InterestServer,
	settlementServer SettlementServer,
) Server {
	return Server{
		SellServer:       sellServer,
		InterestServer:   interestServer,
		SettlementServer: settlementServer,
	}
}
