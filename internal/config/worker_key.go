package config

type WorkerKeyStruct struct {
	PersistNotificationsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistNotificationsQueue: "persist_notifications_queue",
}
