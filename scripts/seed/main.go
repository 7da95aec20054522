package main

import (
	"fmt"
	"log"

	"github.com/draftsmith/internal/config"
	"github.com/draftsmith/internal/db"
	"github.com/draftsmith/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// 测试数据生成器：创建默认管理员与几篇带版本历史的示例文档。
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	createAdminUser()
	createSampleDocuments()

	fmt.Println("测试数据生成完成！")
	fmt.Println("用户: admin (密码: admin123)")
}

func createAdminUser() {
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("密码加密失败:", err)
	}
	if err := db.DB.Create(&db.User{Username: "admin", Password: string(hashedPassword)}).Error; err != nil {
		log.Fatal("创建用户失败:", err)
	}
	fmt.Println("默认管理员用户创建成功")
}

type sampleDocument struct {
	title        string
	revisions    []string
	focusKeyword string
	keywords     []string
}

var samples = []sampleDocument{
	{
		title:        "远程团队的协作手册",
		focusKeyword: "远程协作",
		keywords:     []string{"远程办公", "团队管理"},
		revisions: []string{
			"远程协作的第一要务是书面沟通。把决定写下来，比开十次会更有用。",
			"远程协作的第一要务是书面沟通。把决定写下来，比开十次会更有用。其次是异步优先：不要指望所有人同时在线。",
		},
	},
	{
		title:        "内容平台的版本化设计",
		focusKeyword: "版本控制",
		keywords:     []string{"内容管理", "快照"},
		revisions: []string{
			"每次发布都固化一个不可变快照，回滚只是把旧快照重新写回头部。",
		},
	},
}

func createSampleDocuments() {
	var count int64
	db.DB.Model(&db.Document{}).Count(&count)
	if count > 0 {
		fmt.Println("文档已存在，跳过创建")
		return
	}

	documents := service.NewDocumentService(db.DB)
	versions := service.NewVersionService(db.DB)

	for _, sample := range samples {
		document, err := documents.Create(service.DocumentInput{
			Title:        sample.title,
			Content:      sample.revisions[0],
			FocusKeyword: sample.focusKeyword,
			Keywords:     sample.keywords,
			UserID:       1,
		})
		if err != nil {
			log.Fatal("创建文档失败:", err)
		}

		for _, revision := range sample.revisions {
			if _, err := documents.Update(document.ID, service.DocumentInput{
				Title:        sample.title,
				Content:      revision,
				FocusKeyword: sample.focusKeyword,
				Keywords:     sample.keywords,
				UserID:       1,
			}); err != nil {
				log.Fatal("更新文档失败:", err)
			}
			if _, err := versions.CreateVersion(document.ID, service.ContentSnapshot{
				Title:        sample.title,
				Content:      revision,
				FocusKeyword: sample.focusKeyword,
				Keywords:     sample.keywords,
			}, service.VersionOptions{ChangeSummary: "seed revision", CreatedBy: 1}); err != nil {
				log.Fatal("创建版本失败:", err)
			}
		}
		fmt.Printf("文档已创建: %s（%d 个版本）\n", sample.title, len(sample.revisions))
	}
}
