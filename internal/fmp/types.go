package fmp

import "github.com/shopspring/decimal"

type historicalResponse struct {
	Symbol     string          `json:"symbol"`
	Historical []historicalBar `json:"historical"`
}

type historicalBar struct {
	Date  string          `json:"date"`
	Close decimal.Decimal `json:"close"`
}

type Quote struct {
	Symbol            string          `json:"symbol"`
	Price             decimal.Decimal `json:"price"`
	ChangesPercentage decimal.Decimal `json:"changesPercentage"`
	Volume            int64           `json:"volume"`
}

type Profile struct {
	Symbol      string          `json:"symbol"`
	CompanyName string          `json:"companyName"`
	Industry    string          `json:"industry"`
	MktCap      decimal.Decimal `json:"mktCap"`
	PE          decimal.Decimal `json:"pe"`
	Price       decimal.Decimal `json:"price"`
}

type NewsItem struct {
	Title         string `json:"title"`
	Site          string `json:"site"`
	PublishedDate string `json:"publishedDate"`
	URL           string `json:"url"`
}
