package models

import (
	_ "embed"
	"encoding/base64"
	"time"
)

//go:embed assets/logo.png
var defaultLogoPNG []byte

const isoDate = "2006-01-02"

// DefaultLogo returns the bundled company logo as a data URL.
func DefaultLogo() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(defaultLogoPNG)
}

// InitialOffer returns the example offer a session starts with.
// Dates are derived from now: the offer is valid for 14 days and the contract discount runs for 7.
func InitialOffer(now time.Time) *OfferDocument {
	const companyAddress = `г. Обнинкс, пр. Маркса, 114, ТК Центр Мебель (бывший "12 месяцев"), 2-ой этаж`

	return &OfferDocument{
		Logo:        DefaultLogo(),
		OfferNumber: "12345",
		Date:        now.Format(isoDate),
		ValidUntil:  now.AddDate(0, 0, 14).Format(isoDate),
		From: &Sender{
			Name:    "КОНЦЕПТ DESIGN",
			Address: companyAddress,
			Email:   "info@mebel-concept.ru",
		},
		To: &Recipient{
			Name:    "Иван Иванов",
			Company: "Клиентская Компания",
			Address: "ул. Другая, 456, г. Санкт-Петербург, Россия",
		},
		Introduction: "Уважаемый Иван Иванов,\n\n" +
			"Благодарим вас за интерес к нашим услугам. В продолжение нашего недавнего разговора, " +
			"мы рады представить вам следующее коммерческое предложение для рассмотрения.",
		Photos: []string{},
		Items: []LineItem{
			{ID: 1, Description: "Разработка веб-сайта", Prices: Prices{Standard: 350000, Optimal: 450000, Premium: 600000}},
			{ID: 2, Description: "Ежемесячные SEO-услуги", Prices: Prices{Standard: 150000, Optimal: 195000, Premium: 255000}},
		},
		Discounts: &Discounts{
			Cash:          zeroDiscount(),
			Volume:        zeroDiscount(),
			Contract:      zeroDiscount(),
			ContractDate:  now.AddDate(0, 0, 7).Format(isoDate),
			LoyalCustomer: zeroDiscount(),
			Designer:      zeroDiscount(),
		},
		Notes: "Условия оплаты: 50% предоплата, 50% по завершении.\nСроки проекта: 4-6 недель.",
		Footer: &Footer{
			Mission: "Наша миссия — создать уют и функциональный комфорт в вашем доме, предлагая доступные цены " +
				"и высокий уровень обслуживания. Мы постоянно совершенствуем наш ассортимент, учитывая актуальные " +
				"тренды потребительских предпочтений, что позволяет нам гармонично сочетать дизайн, цену и качество продукции.",
			Contact: &Contact{
				Phone1:  "+7(484) 39-50-7-50",
				Phone2:  "+7(910) 912-62-03",
				Email:   "info@mebel-concept.ru",
				Website: "https://mebel-concept.ru/",
				Address: companyAddress,
			},
			Telegram: "https://t.me/your_telegram",
			WhatsApp: "https://wa.me/79158905005",
		},
	}
}

func zeroDiscount() DiscountValues {
	return DiscountValues{Standard: "0", Optimal: "0", Premium: "0"}
}
