package domain

// Field mappings for the ServiceNow repositories. Index fields prefixed
// with an underscore are Q Business reserved fields.

var serviceNowKnowledgeArticleFields = []FieldMapping{
	stringField("text", "sn_ka_text"),
	stringField("description", "sn_ka_description"),
	stringField("short_description", "sn_ka_short_description"),
	dateField("sys_created_on", "_created_at", serviceNowDateFormat),
	dateField("sys_updated_on", "_last_updated_at", serviceNowDateFormat),
	stringField("kb_category_name", "_category"),
	listField("sys_created_by", "_authors"),
	stringField("sys_updated_by", "sn_updatedBy"),
	stringField("sys_id", "sn_sys_id"),
	dateField("published", "sn_ka_publish_date", serviceNowDateFormat),
	stringField("workflow_state", "sn_ka_workflow_state"),
	stringField("kb_category", "sn_ka_category"),
	stringField("article_type", "sn_ka_article_type"),
	stringField("first_name", "sn_ka_first_name"),
	stringField("last_name", "sn_ka_last_name"),
	stringField("user_name", "sn_ka_user_name"),
	dateField("valid_to", "sn_ka_valid_to", serviceNowDateFormat),
	stringField("kb_knowledge_base", "sn_ka_knowledge_base"),
	stringField("number", "sn_ka_number"),
	stringField("url", "sn_url"),
	stringField("displayUrl", "_source_uri"),
	stringField("display_attachments", "sn_ka_display_attachments"),
	stringField("roles", "sn_ka_roles"),
	stringField("wiki", "sn_ka_wiki"),
	stringField("rating", "sn_ka_rating"),
	stringField("source", "sn_ka_source"),
	stringField("disable_suggesting", "sn_ka_disable_suggesting"),
	stringField("use_count", "sn_ka_use_count"),
	stringField("flagged", "sn_ka_flagged"),
	stringField("disable_commenting", "sn_ka_disable_commenting"),
	stringField("retired", "sn_ka_retired"),
	stringField("image", "sn_ka_image"),
	stringField("author", "sn_ka_author"),
	stringField("active", "sn_ka_active"),
	stringField("helpful_count", "sn_ka_helpful_count"),
	stringField("replacement_article", "sn_ka_replacement_article"),
	stringField("meta_description", "sn_ka_meta_description"),
	stringField("taxonomy_topic", "sn_ka_taxonomy_topic"),
	stringField("meta", "sn_ka_meta"),
	stringField("view_as_allowed", "sn_ka_view_as_allowed"),
	stringField("topic", "sn_ka_topic"),
}

var serviceNowAttachmentFields = []FieldMapping{
	stringField("sys_id", "sn_sys_id"),
	longField("size_bytes", "sn_file_size"),
	stringField("file_name", "sn_file_name"),
	stringField("sys_mod_count", "sn_sys_mod_count"),
	stringField("average_image_color", "sn_average_image_color"),
	stringField("image_width", "sn_image_width"),
	dateField("sys_updated_on", "_last_updated_at", serviceNowDateFormat),
	stringField("sys_tags", "sn_sys_tags"),
	stringField("table_name", "sn_table_name"),
	stringField("image_height", "sn_image_height"),
	stringField("sys_updated_by", "sn_updatedBy"),
	stringField("content_type", "sn_content_type"),
	dateField("sys_created_on", "_created_at", serviceNowDateFormat),
	stringField("size_compressed", "sn_size_compressed"),
	stringField("compressed", "sn_compressed"),
	stringField("state", "sn_state"),
	stringField("table_sys_id", "sn_table_sys_id"),
	stringField("chunk_size_bytes", "sn_chunk_size_bytes"),
	stringField("hash", "sn_hash"),
	listField("sys_created_by", "_authors"),
	stringField("url", "sn_url"),
	stringField("displayUrl", "_source_uri"),
}

var serviceNowServiceCatalogFields = []FieldMapping{
	stringField("sys_id", "sn_sys_id"),
	stringField("description", "sn_sc_description"),
	dateField("sys_created_on", "_created_at", serviceNowDateFormat),
	dateField("sys_updated_on", "_last_updated_at", serviceNowDateFormat),
	listField("sys_created_by", "_authors"),
	stringField("sys_updated_by", "sn_updatedBy"),
	stringField("category_name", "_category"),
	stringField("sc_catalogs", "sn_sc_catalogs"),
	stringField("sc_catalogs_name", "sn_sc_catalogs_name"),
	stringField("category", "sn_sc_category"),
	stringField("category_full_name", "sn_sc_category_full_name"),
	stringField("url", "sn_url"),
	stringField("displayUrl", "_source_uri"),
	stringField("show_variable_help_on_load", "sn_sc_show_var_help_on_load"),
	stringField("no_order_now", "sn_sc_no_order_now"),
	stringField("sc_ic_version", "sn_sc_sc_ic_version"),
	dateField("delivery_time", "sn_sc_delivery_time", serviceNowDateFormat),
	stringField("published_ref", "sn_sc_published_ref"),
	stringField("price", "sn_sc_price"),
	stringField("recurring_frequency", "sn_sc_recurring_frequency"),
	stringField("sys_name", "sn_sc_sys_name"),
	stringField("model", "sn_sc_model"),
	stringField("state", "sn_sc_state"),
	stringField("no_cart", "sn_sc_no_cart"),
	stringField("group", "sn_sc_group"),
	stringField("hide_sp", "sn_sc_hide_sp"),
	stringField("order", "sn_sc_order"),
	stringField("start_closed", "sn_sc_start_closed"),
	stringField("image", "sn_sc_image"),
	stringField("no_quantity", "sn_sc_no_quantity"),
	stringField("delivery_plan", "sn_sc_delivery_plan"),
	stringField("active", "sn_sc_active"),
	stringField("checked_out", "sn_sc_checked_out"),
	stringField("custom_cart", "sn_sc_custom_cart"),
	stringField("no_cart_v2", "sn_sc_no_cart_v2"),
	stringField("no_proceed_checkout", "sn_sc_no_proceed_checkout"),
	stringField("ignore_price", "sn_sc_ignore_price"),
	stringField("sys_update_name", "sn_sc_sys_update_name"),
	stringField("meta", "sn_sc_meta"),
	stringField("omit_price", "sn_sc_omit_price"),
	stringField("name", "sn_sc_name"),
	stringField("mobile_hide_price", "sn_sc_mobile_hide_price"),
	stringField("no_wishlist_v2", "sn_sc_no_wishlist_v2"),
	stringField("preview", "sn_sc_preview"),
	stringField("type", "sn_sc_type"),
	stringField("access_type", "sn_sc_access_type"),
	stringField("roles", "sn_sc_roles"),
	stringField("icon", "sn_sc_icon"),
	stringField("mobile_picture", "sn_sc_mobile_picture"),
	stringField("short_description", "sn_sc_short_description"),
	stringField("availability", "sn_sc_availability"),
	stringField("mandatory_attachment", "sn_sc_mandatory_attachment"),
	stringField("request_method", "sn_sc_request_method"),
	stringField("visible_guide", "sn_sc_visible_guide"),
	stringField("visible_standalone", "sn_sc_visible_standalone"),
	stringField("no_order", "sn_sc_no_order"),
	stringField("vendor", "sn_sc_vendor"),
	stringField("no_attachment_v2", "sn_sc_no_attachment_v2"),
	stringField("mobile_picture_type", "sn_sc_mobile_picture_type"),
	stringField("visible_bundle", "sn_sc_visible_bundle"),
	stringField("ordered_item_link", "sn_sc_ordered_item_link"),
	stringField("owner", "sn_sc_owner"),
	stringField("no_delivery_time_v2", "sn_sc_no_delivery_time_v2"),
	stringField("cost", "sn_sc_cost"),
	stringField("no_quantity_v2", "sn_sc_no_quantity_v2"),
	stringField("recurring_price", "sn_sc_recurring_price"),
	stringField("list_price", "sn_sc_list_price"),
	stringField("sys_tags", "sn_sc_sys_tags"),
	stringField("billable", "sn_sc_billable"),
	stringField("picture", "sn_sc_picture"),
	stringField("display_price_property", "sn_sc_display_price_property"),
	stringField("taxonomy_topic", "sn_sc_taxonomy_topic"),
	stringField("delivery_plan_script", "sn_sc_delivery_plan_script"),
	stringField("location", "sn_sc_location"),
}

var serviceNowIncidentFields = []FieldMapping{
	stringField("sys_id", "sn_inc_sys_id"),
	stringField("short_description", "sn_inc_short_description"),
	stringField("description", "sn_inc_description"),
	listField("sys_created_by", "_authors"),
	dateField("sys_created_on", "_created_at", serviceNowDateFormat),
	dateField("sys_updated_on", "_last_updated_at", serviceNowDateFormat),
	stringField("sys_updated_by", "sn_updatedBy"),
	stringField("number", "sn_inc_number"),
	stringField("opened_by", "sn_inc_opened_by"),
	stringField("state", "sn_inc_state"),
	stringField("business_impact", "sn_inc_business_impact"),
	stringField("impact", "sn_inc_impact"),
	stringField("priority", "sn_inc_priority"),
	stringField("urgency", "sn_inc_urgency"),
	dateField("opened_at", "sn_inc_opened_at", serviceNowDateFormat),
	dateField("business_duration", "sn_inc_business_duration", serviceNowDateFormat),
	stringField("caller_id", "sn_inc_caller_id"),
	dateField("resolved_at", "sn_inc_resolved_at", serviceNowDateFormat),
	stringField("category", "sn_inc_category"),
	stringField("subcategory", "sn_inc_subcategory"),
	stringField("close_code", "sn_inc_close_code"),
	stringField("assignment_group", "sn_inc_assignment_group"),
	stringField("close_notes", "sn_inc_close_notes"),
	stringField("sys_class_name", "sn_inc_sys_class_name"),
	stringField("parent_incident", "sn_inc_parent_incident"),
	stringField("incident_state", "sn_inc_incident_state"),
	stringField("company", "sn_inc_company"),
	stringField("assigned_to", "sn_inc_assigned_to"),
	stringField("hold_reason", "sn_inc_hold_reason"),
	stringField("work_notes", "sn_inc_work_notes"),
	stringField("comments_and_work_notes", "sn_inc_comments_and_work_notes"),
	stringField("work_notes_list", "sn_inc_work_notes_list"),
	stringField("comments", "sn_inc_comments"),
	stringField("url", "sn_url"),
	stringField("displayUrl", "_source_uri"),
	stringField("active", "sn_inc_active"),
	dateField("activity_due", "sn_inc_activity_due", serviceNowDateFormat),
	stringField("additional_assignee_list", "sn_inc_additional_assign_list"),
	stringField("approval", "sn_inc_approval"),
	stringField("approval_history", "sn_inc_approval_history"),
	dateField("approval_set", "sn_inc_approval_set", serviceNowDateFormat),
	stringField("business_service", "sn_inc_business_service"),
	stringField("closed_by", "sn_inc_closed_by"),
	stringField("cmdb_ci", "sn_inc_cmdb_ci"),
	stringField("resolved_by", "sn_inc_resolved_by"),
	stringField("sys_domain", "sn_inc_sys_domain"),
	stringField("business_stc", "sn_inc_business_stc"),
	dateField("calendar_duration", "sn_inc_calendar_duration", serviceNowDateFormat),
	stringField("calendar_stc", "sn_inc_calendar_stc"),
	stringField("cause", "sn_inc_cause"),
	stringField("caused_by", "sn_inc_caused_by"),
	stringField("child_incidents", "sn_inc_child_incidents"),
	dateField("closed_at", "sn_inc_closed_at", serviceNowDateFormat),
	stringField("contact_type", "sn_inc_contact_type"),
	stringField("contract", "sn_inc_contract"),
	stringField("correlation_display", "sn_inc_correlation_display"),
	stringField("delivery_plan", "sn_inc_delivery_plan"),
	stringField("delivery_task", "sn_inc_delivery_task"),
	dateField("due_date", "sn_inc_due_date", serviceNowDateFormat),
	stringField("escalation", "sn_inc_escalation"),
	dateField("expected_start", "sn_inc_expected_start", serviceNowDateFormat),
	dateField("follow_up", "sn_inc_follow_up", serviceNowDateFormat),
	stringField("group_list", "sn_inc_group_list"),
	stringField("knowledge", "sn_inc_knowledge"),
	stringField("location", "sn_inc_location"),
	stringField("made_sla", "sn_inc_made_sla"),
	stringField("notify", "sn_inc_notify"),
	stringField("order", "sn_inc_order"),
	stringField("origin_id", "sn_inc_origin_id"),
	stringField("origin_table", "sn_inc_origin_table"),
	stringField("parent", "sn_inc_parent"),
	stringField("problem_id", "sn_inc_problem_id"),
	stringField("reassignment_count", "sn_inc_reassignment_count"),
	stringField("reopen_count", "sn_inc_reopen_count"),
	stringField("reopened_by", "sn_inc_reopened_by"),
	dateField("reopened_time", "sn_inc_reopened_time", serviceNowDateFormat),
	stringField("rfc", "sn_inc_rfc"),
	stringField("route_reason", "sn_inc_route_reason"),
	stringField("service_offering", "sn_inc_service_offering"),
	stringField("severity", "sn_inc_severity"),
	dateField("sla_due", "sn_inc_sla_due", serviceNowDateFormat),
	stringField("task_effective_number", "sn_inc_task_effective_number"),
	dateField("time_worked", "sn_inc_time_worked", serviceNowDateFormat),
	stringField("universal_request", "sn_inc_universal_request"),
	stringField("upon_approval", "sn_inc_upon_approval"),
	stringField("upon_reject", "sn_inc_upon_reject"),
	stringField("user_input", "sn_inc_user_input"),
	stringField("watch_list", "sn_inc_watch_list"),
	stringField("work_end", "sn_inc_work_end"),
	stringField("work_start", "sn_inc_work_start"),
}

