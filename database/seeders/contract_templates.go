package seeders

import (
	"log"

	"freight-posting/models/contract"

	"gorm.io/gorm"
)

// SeedContractTemplates installs the initial provider and driver contract
// templates so a fresh database can serve the signature step immediately.
func SeedContractTemplates(db *gorm.DB) {
	log.Printf("🔍 Checking contract templates data integrity...")

	templates := []contract.ContractTemplate{
		{
			Name:    "Hợp đồng dịch vụ đăng tin vận chuyển",
			Type:    contract.ContractTypeProvider,
			Version: 1,
			Terms: contract.TermsList{
				"Bên đăng tin cam kết thông tin hàng hóa là chính xác và hợp pháp.",
				"Phí đăng bài được khấu trừ từ ví và không hoàn lại sau khi bài đăng được mở.",
				"Bài đăng chỉ hiển thị công khai sau khi hoàn tất thanh toán.",
				"Hai bên tự thỏa thuận chi tiết giao nhận ngoài các điều khoản nền tảng.",
			},
		},
		{
			Name:    "Hợp đồng nhận vận chuyển",
			Type:    contract.ContractTypeDriver,
			Version: 1,
			Terms: contract.TermsList{
				"Bên vận chuyển cam kết giao hàng đúng thời gian đã thỏa thuận.",
				"Hàng hóa hư hỏng do vận chuyển thuộc trách nhiệm của bên vận chuyển.",
			},
		},
	}

	for _, tpl := range templates {
		var count int64
		db.Model(&contract.ContractTemplate{}).
			Where("type = ? AND version = ?", tpl.Type, tpl.Version).
			Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&tpl).Error; err != nil {
			log.Printf("Failed to seed contract template %s: %v", tpl.Name, err)
		} else {
			log.Printf("Seeded contract template: %s (v%d)", tpl.Name, tpl.Version)
		}
	}
}
