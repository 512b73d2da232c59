package models

// StockItem mirrors one entry of the upstream check-stock response.
type StockItem struct {
	ProductID    int     `json:"productId"`
	Name         string  `json:"name"`
	ProductCode  string  `json:"productCode"`
	Description  string  `json:"description"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	WalletTypeID int     `json:"walletTypeId"`
}

type StockResponse struct {
	Stock []StockItem `json:"stock"`
}
