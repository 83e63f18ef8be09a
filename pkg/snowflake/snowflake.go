package snowflake

import "github.com/bwmarrin/snowflake"

var node *snowflake.Node

func init() {
	node, _ = snowflake.NewNode(1)
}

// GenID 提交记录 ID
func GenID() int64 {
	return node.Generate().Int64()
}
