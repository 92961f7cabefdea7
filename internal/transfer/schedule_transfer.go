package transfer

type ScheduleCreation struct {
	Username           string `json:"username"`
	Password           string `json:"password"`
	ImgSrc             string `json:"img_src"`
	Caption            string `json:"caption"`
	IsMobile           bool   `json:"is_mobile"`
	PublishImmediately bool   `json:"publish_immediately"`
	ScheduledTime      string `json:"scheduled_time"`
}

type ScheduleCreated struct {
	ScheduleID int64 `json:"schedule_id"`
}
