package model

// 站点配置 Key
const (
	SettingGSTPercent            = "gst_percent"
	SettingFreeShippingThreshold = "free_shipping_threshold"
	SettingFreeShippingEnabled   = "free_shipping_enabled"
)

// SiteSetting 站点级 key/value 配置
type SiteSetting struct {
	BaseModel
	Key   string `gorm:"size:64;uniqueIndex" json:"key"`
	Value string `gorm:"size:255" json:"value"`
}

func (SiteSetting) TableName() string {
	return "site_settings"
}
