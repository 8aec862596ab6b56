// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dao

import (
	"context"
	"time"

	"github.com/ego-component/egorm"
)

// Material 兜底检索的语料表。向量以 JSON 存在行内，
// 量不大，兜底路径全表扫回来在内存里算相似度。
type Material struct {
	ID        int64  `gorm:"primaryKey,autoIncrement"`
	Domain    string `gorm:"type:varchar(128);index:idx_domain"`
	Text      string `gorm:"type:TEXT;NOT NULL"`
	Embedding string `gorm:"type:TEXT"`
	Source    string `gorm:"type:varchar(512)"`
	Ctime     int64
	Utime     int64
}

func (Material) TableName() string {
	return "materials"
}

type MaterialDAO interface {
	Create(ctx context.Context, m Material) (int64, error)
	FindByDomain(ctx context.Context, domain string) ([]Material, error)
	Domains(ctx context.Context) ([]string, error)
}

type GORMMaterialDAO struct {
	db *egorm.Component
}

func NewGORMMaterialDAO(db *egorm.Component) MaterialDAO {
	return &GORMMaterialDAO{db: db}
}

func (g *GORMMaterialDAO) Create(ctx context.Context, m Material) (int64, error) {
	now := time.Now().UnixMilli()
	m.Ctime = now
	m.Utime = now
	err := g.db.WithContext(ctx).Create(&m).Error
	return m.ID, err
}

func (g *GORMMaterialDAO) FindByDomain(ctx context.Context, domain string) ([]Material, error) {
	var res []Material
	err := g.db.WithContext(ctx).Where("domain = ?", domain).Find(&res).Error
	return res, err
}

func (g *GORMMaterialDAO) Domains(ctx context.Context) ([]string, error) {
	var res []string
	err := g.db.WithContext(ctx).Model(&Material{}).
		Distinct("domain").Order("domain ASC").Pluck("domain", &res).Error
	return res, err
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Material{})
}
