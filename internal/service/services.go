package service

// Services 全部资源服务
type Services struct {
	Projects          ProjectService
	SourceDbs         SourceDbService
	Targets           TargetService
	Mappings          MappingService
	Waves             WaveService
	Labels            LabelService
	ConfigEditors     ConfigEditorService
	DeploymentHistory DeploymentHistoryService
	ScheduleRestore   ScheduleRestoreService
	SoftwareLibrary   SoftwareLibraryService
	Metadata          MetadataService
}

// NewServices 基于同一个后端客户端创建全部服务
func NewServices(backend Backend) *Services {
	return &Services{
		Projects:          NewProjectService(backend),
		SourceDbs:         NewSourceDbService(backend),
		Targets:           NewTargetService(backend),
		Mappings:          NewMappingService(backend),
		Waves:             NewWaveService(backend),
		Labels:            NewLabelService(backend),
		ConfigEditors:     NewConfigEditorService(backend),
		DeploymentHistory: NewDeploymentHistoryService(backend),
		ScheduleRestore:   NewScheduleRestoreService(backend),
		SoftwareLibrary:   NewSoftwareLibraryService(backend),
		Metadata:          NewMetadataService(backend),
	}
}
