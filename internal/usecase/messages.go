package usecase

// 画面に出す文言
const (
	MsgChooseSize      = "Оберіть розмір"
	MsgChooseType      = "Оберіть тип"
	MsgUnknownType     = "Невідомий тип"
	MsgUnknownSubtype  = "Невідомий підтип"
	MsgUnknownSize     = "Невідомий розмір"
	MsgAddToCart       = "Додати в кошик"
	MsgSoldOut         = "Товар закінчився"
	MsgAllTypes        = "Всі типи"
	MsgAllSubtypes     = "Всі підтипи"
	MsgLoading         = "Завантаження..."
	MsgCatalogFailed   = "Не вдалося завантажити товари"
	MsgEmptySection    = "Немає товарів"
	MsgSectionPreorder = "Передзамовлення"
	MsgSectionInStock  = "В наявності"
	MsgSectionOutStock = "Немає в наявності"
	MsgLowStock        = "Закінчується"
	MsgCurrency        = "грн"
	MsgOrderTotal      = "Разом"
	MsgOrderSizePrefix = "розмір"
)
