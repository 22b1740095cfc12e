package systems

import (
	"log"

	"github.com/decker502/roboworld/pkg/ecs"
)

// logDisabled 记录实体因配置错误被禁用
// 调用方负责保证每个实体只调用一次
func logDisabled(system string, id ecs.EntityID, err error) {
	log.Printf("[%s] Entity %d disabled: %v", system, id, err)
}
