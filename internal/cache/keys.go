package cache

import "fmt"

const ns = "railgo:v1"

func KeyTrainSummary(trainID int64) string {
	return fmt.Sprintf("%s:train:%d:summary", ns, trainID)
}

func KeySearch(origin, destination, day string) string {
	return fmt.Sprintf("%s:search:%s:%s:%s", ns, origin, destination, day)
}
